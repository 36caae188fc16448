package form

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"spacetraffic/internal/prediction"
	"spacetraffic/internal/types"
)

// SessionSubmitter is the session the form submits through.
type SessionSubmitter interface {
	Submit(ctx context.Context, in prediction.Input) (*prediction.Result, error)
	Last() (prediction.Input, bool)
}

// Runner drives the prediction form until the user stops or a fatal error
// occurs.
type Runner struct {
	driver    PromptDriver
	session   SessionSubmitter
	models    []string
	locations []string
	logger    *slog.Logger
}

// NewRunner returns a form over the given model names and location
// vocabulary. The first model is the default selection.
func NewRunner(driver PromptDriver, session SessionSubmitter, models, locations []string, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		driver:    driver,
		session:   session,
		models:    models,
		locations: locations,
		logger:    logger,
	}
}

// Run shows the form repeatedly. It returns nil when the user declines to
// predict again or aborts a prompt, and the error when an artifact fails to
// load.
func (r *Runner) Run(ctx context.Context) error {
	if len(r.models) == 0 || len(r.locations) == 0 {
		return errors.New("form: no models or locations to choose from")
	}
	for {
		in, err := r.ask(ctx)
		if err != nil {
			if errors.Is(err, ErrAborted) {
				return nil
			}
			return err
		}

		res, err := r.session.Submit(ctx, in)
		if err != nil {
			r.logger.Debug("form submission failed", "model", in.Model, "error", err)
			if infoErr := r.driver.Info(ctx, prediction.UserMessage(err)); infoErr != nil {
				return infoErr
			}
			if prediction.Fatal(err) {
				return err
			}
		} else if err := r.driver.Info(ctx, res.Message); err != nil {
			return err
		}

		again, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Predict again?", Default: true})
		if err != nil {
			if errors.Is(err, ErrAborted) {
				return nil
			}
			return err
		}
		if !again {
			return nil
		}
	}
}

func (r *Runner) ask(ctx context.Context) (prediction.Input, error) {
	defaults := r.defaults()

	modelIdx, err := r.driver.Select(ctx, SelectConfig{
		Message:      "Model:",
		Options:      r.models,
		DefaultIndex: indexOf(r.models, defaults.Model),
	})
	if err != nil {
		return prediction.Input{}, err
	}
	locIdx, err := r.driver.Select(ctx, SelectConfig{
		Message:      "Location:",
		Options:      r.locations,
		DefaultIndex: indexOf(r.locations, defaults.Location),
	})
	if err != nil {
		return prediction.Input{}, err
	}
	if modelIdx < 0 || modelIdx >= len(r.models) || locIdx < 0 || locIdx >= len(r.locations) {
		return prediction.Input{}, errors.New("form: selection out of range")
	}

	year, err := r.askInt(ctx, "Year:", defaults.Year, types.MinYear, types.MaxYear)
	if err != nil {
		return prediction.Input{}, err
	}
	month, err := r.askInt(ctx, "Month:", defaults.Month, types.MinMonth, types.MaxMonth)
	if err != nil {
		return prediction.Input{}, err
	}
	day, err := r.askInt(ctx, "Day:", defaults.Day, types.MinDay, types.MaxDay)
	if err != nil {
		return prediction.Input{}, err
	}

	labels := make([]string, len(types.ObjectTypes))
	var checked []int
	for i, t := range types.ObjectTypes {
		labels[i] = string(t)
		if defaults.ObjectTypes[string(t)] {
			checked = append(checked, i)
		}
	}
	picked, err := r.driver.MultiSelect(ctx, SelectConfig{
		Message:  "Object types present:",
		Options:  labels,
		Defaults: checked,
	})
	if err != nil {
		return prediction.Input{}, err
	}
	objects := make(map[string]bool, len(labels))
	for _, label := range labels {
		objects[label] = false
	}
	for _, idx := range picked {
		if idx >= 0 && idx < len(labels) {
			objects[labels[idx]] = true
		}
	}

	return prediction.Input{
		Model:       r.models[modelIdx],
		Location:    r.locations[locIdx],
		Year:        year,
		Month:       month,
		Day:         day,
		ObjectTypes: objects,
	}, nil
}

// First-form date.
const (
	defaultYear  = 2024
	defaultMonth = 10
	defaultDay   = 21
)

// defaults prefills from the last submission, or the first-form date with
// the default object flags.
func (r *Runner) defaults() prediction.Input {
	if last, ok := r.session.Last(); ok {
		return last
	}
	flags := types.DefaultObjectFlags()
	objects := make(map[string]bool, len(flags))
	for t, on := range flags {
		objects[string(t)] = on
	}
	return prediction.Input{
		Model:       r.models[0],
		Location:    r.locations[0],
		Year:        defaultYear,
		Month:       defaultMonth,
		Day:         defaultDay,
		ObjectTypes: objects,
	}
}

func (r *Runner) askInt(ctx context.Context, message string, def, lo, hi int) (int, error) {
	raw, err := r.driver.Input(ctx, InputConfig{
		Message:   message,
		Default:   strconv.Itoa(def),
		Help:      fmt.Sprintf("a whole number from %d to %d", lo, hi),
		Validator: boundedInt(lo, hi),
	})
	if err != nil {
		return 0, err
	}
	if err := boundedInt(lo, hi)(raw); err != nil {
		return 0, err
	}
	v, _ := strconv.Atoi(raw)
	return v, nil
}

func boundedInt(lo, hi int) func(string) error {
	return func(s string) error {
		v, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("%q is not a whole number", s)
		}
		if v < lo || v > hi {
			return fmt.Errorf("must be between %d and %d", lo, hi)
		}
		return nil
	}
}
