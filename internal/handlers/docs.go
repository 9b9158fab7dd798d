package handlers

import (
	"encoding/json"
	"net/http"
)

func schemaRef(name string) map[string]interface{} {
	return map[string]interface{}{"$ref": "#/components/schemas/" + name}
}

func jsonResponse(description, schema string) map[string]interface{} {
	return map[string]interface{}{
		"description": description,
		"content": map[string]interface{}{
			"application/json": map[string]interface{}{
				"schema": schemaRef(schema),
			},
		},
	}
}

var mountIDParameter = map[string]interface{}{
	"name":        "id",
	"in":          "path",
	"description": "Widget mount ID",
	"required":    true,
	"schema":      map[string]string{"type": "string"},
}

// OpenAPIDocument returns the OpenAPI 3.0 description of the widget API
func OpenAPIDocument() map[string]interface{} {
	notFound := jsonResponse("Unknown or discarded mount", "ErrorResponse")

	return map[string]interface{}{
		"openapi": "3.0.3",
		"info": map[string]interface{}{
			"title":       "7GUIs Widget API",
			"description": "Counter and Celsius/Fahrenheit converter widgets driven by browser input events",
			"version":     "1.0.0",
		},
		"servers": []map[string]string{
			{"url": "http://localhost:8080", "description": "Local development server"},
		},
		"paths": map[string]interface{}{
			"/api/widgets": map[string]interface{}{
				"post": map[string]interface{}{
					"summary":     "Mount widgets",
					"description": "Create a counter at 0 and a converter at 0°C / 32°F",
					"responses": map[string]interface{}{
						"201": jsonResponse("Mounted", "MountSnapshot"),
					},
				},
			},
			"/api/widgets/{id}": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":    "Get widget state",
					"parameters": []interface{}{mountIDParameter},
					"responses": map[string]interface{}{
						"200": jsonResponse("Current displays", "MountSnapshot"),
						"404": notFound,
					},
				},
				"delete": map[string]interface{}{
					"summary":    "Unmount widgets",
					"parameters": []interface{}{mountIDParameter},
					"responses": map[string]interface{}{
						"204": map[string]interface{}{"description": "Unmounted"},
						"404": notFound,
					},
				},
			},
			"/api/widgets/{id}/temperature": map[string]interface{}{
				"post": map[string]interface{}{
					"summary":     "Edit a converter field",
					"description": "Apply the full text of one field. Unparsable text yields an invalid display, not an error.",
					"parameters":  []interface{}{mountIDParameter},
					"requestBody": map[string]interface{}{
						"required": true,
						"content": map[string]interface{}{
							"application/json": map[string]interface{}{
								"schema": schemaRef("TemperatureEditRequest"),
							},
						},
					},
					"responses": map[string]interface{}{
						"200": jsonResponse("Displays of both fields", "TemperatureSnapshot"),
						"400": jsonResponse("Malformed body or unknown unit", "ErrorResponse"),
						"404": notFound,
					},
				},
			},
			"/api/widgets/{id}/counter/increment": map[string]interface{}{
				"post": map[string]interface{}{
					"summary":    "Activate the counter",
					"parameters": []interface{}{mountIDParameter},
					"responses": map[string]interface{}{
						"200": jsonResponse("New count", "CounterResponse"),
						"404": notFound,
					},
				},
			},
			"/health": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Health check",
					"description": "Check if the server is running",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Server is healthy",
							"content": map[string]interface{}{
								"application/json": map[string]interface{}{
									"schema": map[string]interface{}{
										"type": "object",
										"properties": map[string]interface{}{
											"status":    map[string]string{"type": "string"},
											"mounts":    map[string]string{"type": "integer"},
											"timestamp": map[string]string{"type": "string", "format": "date-time"},
										},
									},
								},
							},
						},
					},
				},
			},
			"/metrics": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Prometheus metrics",
					"description": "Prometheus metrics endpoint for monitoring",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Prometheus metrics in text format",
							"content": map[string]interface{}{
								"text/plain": map[string]interface{}{
									"schema": map[string]string{"type": "string"},
								},
							},
						},
					},
				},
			},
		},
		"components": map[string]interface{}{
			"schemas": map[string]interface{}{
				"Display": map[string]interface{}{
					"type":     "object",
					"required": []string{"valid", "text"},
					"properties": map[string]interface{}{
						"valid": map[string]string{"type": "boolean"},
						"text":  map[string]string{"type": "string"},
					},
				},
				"TemperatureSnapshot": map[string]interface{}{
					"type":     "object",
					"required": []string{"celsius", "fahrenheit"},
					"properties": map[string]interface{}{
						"celsius":    schemaRef("Display"),
						"fahrenheit": schemaRef("Display"),
					},
				},
				"MountSnapshot": map[string]interface{}{
					"type":     "object",
					"required": []string{"id", "mounted_at", "count", "temperature"},
					"properties": map[string]interface{}{
						"id":          map[string]string{"type": "string"},
						"mounted_at":  map[string]string{"type": "string", "format": "date-time"},
						"count":       map[string]string{"type": "integer"},
						"temperature": schemaRef("TemperatureSnapshot"),
					},
				},
				"TemperatureEditRequest": map[string]interface{}{
					"type":     "object",
					"required": []string{"unit", "text"},
					"properties": map[string]interface{}{
						"unit": map[string]interface{}{"type": "string", "enum": []string{"celsius", "fahrenheit", "c", "f"}},
						"text": map[string]string{"type": "string"},
					},
				},
				"CounterResponse": map[string]interface{}{
					"type":     "object",
					"required": []string{"count"},
					"properties": map[string]interface{}{
						"count": map[string]string{"type": "integer"},
					},
				},
				"ErrorResponse": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"error":      map[string]string{"type": "string"},
						"message":    map[string]string{"type": "string"},
						"code":       map[string]string{"type": "integer"},
						"request_id": map[string]string{"type": "string"},
					},
				},
			},
		},
	}
}

// OpenAPISpec serves the OpenAPI document
func OpenAPISpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(OpenAPIDocument())
}
