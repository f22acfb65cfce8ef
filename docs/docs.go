// Package docs registers the OpenAPI document served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/positions": {
            "post": {
                "description": "Estimates the vehicle position from cell observations and stores it.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["positions"],
                "summary": "Submit a position report",
                "parameters": [
                    {
                        "description": "Position report",
                        "name": "report",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/models.PositionReport"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.PositionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/positions/estimate": {
            "post": {
                "description": "Runs cell observations through tower resolution and estimation without storing anything.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["positions"],
                "summary": "Estimate a position",
                "parameters": [
                    {
                        "description": "Cell observations",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.EstimateRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.EstimateResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/positions/current/{vehicle_id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["positions"],
                "summary": "Current vehicle position",
                "parameters": [
                    {"type": "string", "description": "Vehicle ID", "name": "vehicle_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.PositionResponse"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/positions/vehicle/{vehicle_id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["positions"],
                "summary": "Vehicle position history",
                "parameters": [
                    {"type": "string", "description": "Vehicle ID", "name": "vehicle_id", "in": "path", "required": true},
                    {"type": "integer", "description": "Maximum rows", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.HistoryResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/towers": {
            "get": {
                "produces": ["application/json"],
                "tags": ["towers"],
                "summary": "List stored towers",
                "parameters": [
                    {"type": "integer", "description": "Maximum rows", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.TowerLocation"}}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/towers/nearby": {
            "get": {
                "produces": ["application/json"],
                "tags": ["towers"],
                "summary": "Towers near a coordinate",
                "parameters": [
                    {"type": "number", "description": "Latitude", "name": "lat", "in": "query", "required": true},
                    {"type": "number", "description": "Longitude", "name": "lon", "in": "query", "required": true},
                    {"type": "integer", "description": "Radius in meters", "name": "radius", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.TowerLocation"}}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/towers/resolve": {
            "post": {
                "description": "Runs each identity through the resolver chain and reports which tier answered.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["towers"],
                "summary": "Resolve tower identities",
                "parameters": [
                    {
                        "description": "Tower identities",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.ResolveRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.ResolveResult"}}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/vehicles": {
            "get": {
                "produces": ["application/json"],
                "tags": ["vehicles"],
                "summary": "List registered vehicles",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.VehicleListResponse"}}
                }
            },
            "post": {
                "description": "Creates the vehicle, or updates it when the device id is already registered.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["vehicles"],
                "summary": "Register a vehicle",
                "parameters": [
                    {
                        "description": "Vehicle",
                        "name": "vehicle",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/models.Vehicle"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.RegisterResponse"}},
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.RegisterResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/vehicles/{device_id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["vehicles"],
                "summary": "Get a registered vehicle",
                "parameters": [
                    {"type": "string", "description": "Device ID", "name": "device_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Vehicle"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Service health",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "handler.EstimateRequest": {
            "type": "object",
            "required": ["cells"],
            "properties": {
                "cells": {"type": "array", "minItems": 1, "items": {"$ref": "#/definitions/models.CellObservation"}}
            }
        },
        "handler.EstimateResponse": {
            "type": "object",
            "properties": {
                "accuracy": {"type": "number"},
                "estimated_position": {"$ref": "#/definitions/models.Point"},
                "method": {"type": "string"}
            }
        },
        "handler.HistoryResponse": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "positions": {"type": "array", "items": {"$ref": "#/definitions/handler.PositionResponse"}},
                "vehicle_id": {"type": "string"}
            }
        },
        "handler.PositionResponse": {
            "type": "object",
            "properties": {
                "accuracy": {"type": "number"},
                "created_at": {"type": "string"},
                "device_type": {"type": "string"},
                "estimated_position": {"$ref": "#/definitions/models.Point"},
                "id": {"type": "string"},
                "method": {"type": "string"},
                "resolved_towers": {"type": "integer"},
                "route_id": {"type": "string"},
                "timestamp": {"type": "string"},
                "vehicle_id": {"type": "string"}
            }
        },
        "handler.ResolveRequest": {
            "type": "object",
            "required": ["towers"],
            "properties": {
                "towers": {"type": "array", "minItems": 1, "items": {"$ref": "#/definitions/models.TowerIdentity"}}
            }
        },
        "handler.ResolveResult": {
            "type": "object",
            "properties": {
                "identity": {"$ref": "#/definitions/models.TowerIdentity"},
                "location": {"$ref": "#/definitions/models.TowerLocation"},
                "resolved": {"type": "boolean"}
            }
        },
        "handler.RegisterResponse": {
            "type": "object",
            "properties": {
                "device_id": {"type": "string"},
                "status": {"type": "string"},
                "vehicle": {"$ref": "#/definitions/models.Vehicle"}
            }
        },
        "handler.VehicleListResponse": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "vehicles": {"type": "array", "items": {"$ref": "#/definitions/models.Vehicle"}}
            }
        },
        "models.CellObservation": {
            "type": "object",
            "properties": {
                "cid": {"type": "integer"},
                "lac": {"type": "integer"},
                "mcc": {"type": "integer"},
                "mnc": {"type": "integer"},
                "rssi": {"type": "integer"},
                "ta": {"type": "integer"},
                "type": {"type": "string"}
            }
        },
        "models.Point": {
            "type": "object",
            "properties": {
                "lat": {"type": "number"},
                "lon": {"type": "number"}
            }
        },
        "models.PositionReport": {
            "type": "object",
            "required": ["cells", "timestamp", "vehicle_id"],
            "properties": {
                "cells": {"type": "array", "minItems": 1, "items": {"$ref": "#/definitions/models.CellObservation"}},
                "device_type": {"type": "string"},
                "position": {"$ref": "#/definitions/models.Point"},
                "route_id": {"type": "string"},
                "timestamp": {"type": "string"},
                "vehicle_id": {"type": "string"}
            }
        },
        "models.TowerIdentity": {
            "type": "object",
            "properties": {
                "cid": {"type": "integer"},
                "lac": {"type": "integer"},
                "mcc": {"type": "integer"},
                "mnc": {"type": "integer"}
            }
        },
        "models.TowerLocation": {
            "type": "object",
            "properties": {
                "identity": {"$ref": "#/definitions/models.TowerIdentity"},
                "latitude": {"type": "number"},
                "longitude": {"type": "number"},
                "origin": {"type": "string"},
                "radio": {"type": "string"},
                "range_meters": {"type": "integer"},
                "source": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "models.Vehicle": {
            "type": "object",
            "required": ["device_id"],
            "properties": {
                "created_at": {"type": "string"},
                "device_id": {"type": "string"},
                "last_update": {"type": "string"},
                "route_id": {"type": "string"},
                "status": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "celltrack API",
	Description:      "Cellular position estimation for fleet vehicles.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
