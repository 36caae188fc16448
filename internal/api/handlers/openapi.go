package handlers

import (
	"github.com/getkin/kin-openapi/openapi3"

	"spacetraffic/internal/features"
	"spacetraffic/internal/types"
)

func componentRef(name string, schema *openapi3.Schema) *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Ref: "#/components/schemas/" + name, Value: schema}
}

func dataEnvelope(data *openapi3.SchemaRef) *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithPropertyRef("data", data).
		WithRequired([]string{"data"})
}

func jsonResponse(description string, schema *openapi3.Schema) *openapi3.ResponseRef {
	return &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription(description).WithJSONSchema(schema)}
}

// NewOpenAPIDocument describes the /v1 API. locations, when non-empty, is
// published as the enum of the location field.
func NewOpenAPIDocument(version string, modelNames, locations []string) *openapi3.T {
	if version == "" {
		version = "dev"
	}

	objectLabels := make([]any, len(types.ObjectTypes))
	for i, t := range types.ObjectTypes {
		objectLabels[i] = string(t)
	}
	columns := make([]any, 0, features.SpaceTrafficSchema.Len())
	for _, c := range features.SpaceTrafficSchema.Columns() {
		columns = append(columns, c)
	}

	modelSchema := openapi3.NewStringSchema()
	if len(modelNames) > 0 {
		enum := make([]any, len(modelNames))
		for i, n := range modelNames {
			enum[i] = n
		}
		modelSchema = modelSchema.WithEnum(enum...)
	}
	locationSchema := openapi3.NewStringSchema()
	if len(locations) > 0 {
		enum := make([]any, len(locations))
		for i, l := range locations {
			enum[i] = l
		}
		locationSchema = locationSchema.WithEnum(enum...)
	}

	errorSchema := openapi3.NewObjectSchema().
		WithProperty("error", openapi3.NewObjectSchema().
			WithProperty("code", openapi3.NewStringSchema()).
			WithProperty("message", openapi3.NewStringSchema()).
			WithProperty("details", openapi3.NewObjectSchema().WithAnyAdditionalProperties()).
			WithProperty("request_id", openapi3.NewStringSchema()).
			WithRequired([]string{"code", "message", "request_id"})).
		WithRequired([]string{"error"})

	inputSchema := openapi3.NewObjectSchema().
		WithProperty("model", modelSchema).
		WithProperty("location", locationSchema).
		WithProperty("year", openapi3.NewIntegerSchema().WithMin(types.MinYear).WithMax(types.MaxYear)).
		WithProperty("month", openapi3.NewIntegerSchema().WithMin(types.MinMonth).WithMax(types.MaxMonth)).
		WithProperty("day", openapi3.NewIntegerSchema().WithMin(types.MinDay).WithMax(types.MaxDay)).
		WithProperty("object_types", openapi3.NewObjectSchema().
			WithAdditionalProperties(openapi3.NewBoolSchema())).
		WithRequired([]string{"model", "location", "year", "month", "day"})
	inputSchema.Properties["object_types"].Value.Description =
		"Keys are object type labels. Omit to use the defaults; absent labels are off."

	resultSchema := openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewUUIDSchema()).
		WithProperty("model", openapi3.NewStringSchema()).
		WithProperty("prediction", openapi3.NewFloat64Schema()).
		WithProperty("message", openapi3.NewStringSchema()).
		WithProperty("features", openapi3.NewObjectSchema().
			WithAdditionalProperties(openapi3.NewFloat64Schema()))

	modelInfoSchema := openapi3.NewObjectSchema().
		WithProperty("name", openapi3.NewStringSchema()).
		WithProperty("source", openapi3.NewStringSchema().WithEnum("artifact", "remote")).
		WithProperty("description", openapi3.NewStringSchema()).
		WithProperty("default", openapi3.NewBoolSchema())

	objectTypeSchema := openapi3.NewObjectSchema().
		WithProperty("label", openapi3.NewStringSchema().WithEnum(objectLabels...)).
		WithProperty("column", openapi3.NewStringSchema()).
		WithProperty("default", openapi3.NewBoolSchema())

	schemaInfo := openapi3.NewObjectSchema().
		WithProperty("name", openapi3.NewStringSchema()).
		WithProperty("columns", openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema().WithEnum(columns...)))

	errRef := componentRef("Error", errorSchema)
	errResponse := func(description string) *openapi3.ResponseRef {
		return &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription(description).WithJSONSchemaRef(errRef)}
	}

	get := func(id, summary string, data *openapi3.SchemaRef) *openapi3.PathItem {
		op := openapi3.NewOperation()
		op.OperationID = id
		op.Summary = summary
		op.Tags = []string{"catalog"}
		op.Responses = openapi3.NewResponses(
			openapi3.WithStatus(200, jsonResponse("OK", dataEnvelope(data))),
		)
		return &openapi3.PathItem{Get: op}
	}

	create := openapi3.NewOperation()
	create.OperationID = "createPrediction"
	create.Summary = "Predict traffic density for one submission"
	create.Tags = []string{"predictions"}
	create.RequestBody = &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().
		WithRequired(true).
		WithJSONSchemaRef(componentRef("PredictionInput", inputSchema))}
	create.Responses = openapi3.NewResponses(
		openapi3.WithStatus(200, jsonResponse("Prediction computed", dataEnvelope(componentRef("PredictionResult", resultSchema)))),
		openapi3.WithStatus(400, errResponse("Invalid input or unknown location")),
		openapi3.WithStatus(409, errResponse("Another submission is in progress")),
		openapi3.WithStatus(422, errResponse("Feature row does not match the model")),
		openapi3.WithStatus(500, errResponse("Model artifact could not be loaded")),
		openapi3.WithStatus(502, errResponse("Remote model unavailable")),
	)

	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       "Space Traffic Density API",
			Description: "Predicts space traffic density from location, date, and object types.",
			Version:     version,
		},
		Paths: openapi3.NewPaths(
			openapi3.WithPath("/v1/models", get("listModels", "List selectable models",
				openapi3.NewArraySchema().WithItems(modelInfoSchema).NewRef())),
			openapi3.WithPath("/v1/locations", get("listLocations", "List known locations",
				openapi3.NewObjectSchema().WithProperty("locations",
					openapi3.NewArraySchema().WithItems(locationSchema)).NewRef())),
			openapi3.WithPath("/v1/object-types", get("listObjectTypes", "List object type toggles",
				openapi3.NewArraySchema().WithItems(objectTypeSchema).NewRef())),
			openapi3.WithPath("/v1/schema", get("getSchema", "Describe the feature row", schemaInfo.NewRef())),
			openapi3.WithPath("/v1/predictions", &openapi3.PathItem{Post: create}),
		),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{
				"Error":            openapi3.NewSchemaRef("", errorSchema),
				"PredictionInput":  openapi3.NewSchemaRef("", inputSchema),
				"PredictionResult": openapi3.NewSchemaRef("", resultSchema),
			},
		},
	}
}
