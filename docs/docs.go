// Package docs registers the portal's OpenAPI document with swag.
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
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [
                    {"description": "Login credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.sessionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new user",
                "parameters": [
                    {"description": "Registration details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.registerRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.sessionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "409": {"description": "Conflict", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/auth/external": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login with an external identity",
                "parameters": [
                    {"description": "Provider ID token", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.externalRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.sessionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["auth"],
                "summary": "Logout",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/auth/session": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current session",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.sessionResponse"}}}
            }
        },
        "/navigate": {
            "get": {
                "produces": ["application/json"],
                "tags": ["navigation"],
                "summary": "Evaluate route access",
                "parameters": [{"type": "string", "default": "/", "description": "Route path", "name": "path", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.navigateResponse"}}}
            }
        },
        "/views": {
            "get": {
                "produces": ["application/json"],
                "tags": ["navigation"],
                "summary": "Identity consumer views",
                "parameters": [{"type": "string", "default": "/", "description": "Current path", "name": "path", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/service.Views"}}}
            }
        },
        "/admin/overview": {
            "get": {
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Admin dashboard data",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.adminOverviewResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "403": {"description": "Forbidden", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "domain.Session": {
            "type": "object",
            "properties": {
                "subjectId": {"type": "string"},
                "displayName": {"type": "string"},
                "email": {"type": "string"},
                "avatarUrl": {"type": "string"},
                "role": {"type": "string", "enum": ["user", "admin"]}
            }
        },
        "domain.Route": {
            "type": "object",
            "properties": {
                "path": {"type": "string"},
                "name": {"type": "string"},
                "requiredRole": {"type": "string", "enum": ["none", "user", "admin"]},
                "loginRoute": {"type": "boolean"}
            }
        },
        "domain.Decision": {
            "type": "object",
            "properties": {
                "outcome": {"type": "string", "enum": ["allow", "redirect"]},
                "location": {"type": "string"}
            }
        },
        "handler.loginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "handler.registerRequest": {
            "type": "object",
            "required": ["displayName", "email", "password"],
            "properties": {"displayName": {"type": "string", "maxLength": 80}, "email": {"type": "string"}, "password": {"type": "string"}}
        },
        "handler.externalRequest": {
            "type": "object",
            "required": ["idToken"],
            "properties": {"idToken": {"type": "string", "description": "HS256 ID token signed by the provider"}}
        },
        "handler.sessionResponse": {
            "type": "object",
            "properties": {"session": {"$ref": "#/definitions/domain.Session"}}
        },
        "handler.navigateResponse": {
            "type": "object",
            "properties": {"route": {"$ref": "#/definitions/domain.Route"}, "decision": {"$ref": "#/definitions/domain.Decision"}}
        },
        "handler.adminOverviewResponse": {
            "type": "object",
            "properties": {"identities": {"type": "integer"}, "routes": {"type": "array", "items": {"$ref": "#/definitions/domain.Route"}}}
        },
        "service.Views": {
            "type": "object",
            "properties": {
                "nav": {"type": "object"},
                "chat": {"type": "object"},
                "admin": {"type": "object"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Homiin Portal API",
	Description:      "Session and access control for the Homiin health portal.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
