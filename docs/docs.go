// Package docs holds the Swagger document served at /swagger/*.
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
        "/ai/chat": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["ai"],
                "summary": "Chat with the study assistant",
                "parameters": [
                    {"description": "Prompt", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.ChatRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.ChatResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "410": {"description": "Gone", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/ai/planner": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["ai"],
                "summary": "Generate a weekly study plan",
                "parameters": [
                    {"description": "Plan inputs", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.PlannerRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.PlannerResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/ai/summary": {
            "post": {
                "produces": ["application/json"],
                "tags": ["ai"],
                "summary": "Generate a weekly progress summary",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.SummaryResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/ai/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["ai"],
                "summary": "AI feature status when AI is disabled",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.HealthResponse"}}
                }
            }
        },
        "/contact": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["forms"],
                "summary": "Submit the contact form",
                "parameters": [
                    {"description": "Contact form", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.ContactRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.RelayResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/feedback": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["forms"],
                "summary": "Submit feedback",
                "parameters": [
                    {"description": "Feedback form", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.FeedbackRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.RelayResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/send-registration": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["notifications"],
                "summary": "Send the welcome email for a new account",
                "parameters": [
                    {"description": "New user", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.NoticeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.RelayResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/send-login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["notifications"],
                "summary": "Send a login notification email",
                "parameters": [
                    {"description": "Signed-in user", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.NoticeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.RelayResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "errors.ErrorResponse": {
            "type": "object",
            "properties": {"code": {"type": "string"}, "error": {"type": "string"}}
        },
        "handler.ChatRequest": {
            "type": "object",
            "properties": {"prompt": {"type": "string"}}
        },
        "handler.ChatResponse": {
            "type": "object",
            "properties": {"reply": {"type": "string"}}
        },
        "handler.PlannerRequest": {
            "type": "object",
            "properties": {
                "goals": {"type": "string"},
                "level": {"type": "string", "example": "Beginner"},
                "timeAvailable": {"type": "string", "example": "45"}
            }
        },
        "handler.PlannerResponse": {
            "type": "object",
            "properties": {"plan": {"type": "string"}}
        },
        "handler.SummaryResponse": {
            "type": "object",
            "properties": {"summary": {"type": "string"}}
        },
        "handler.HealthResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}, "status": {"type": "string"}}
        },
        "handler.ContactRequest": {
            "type": "object",
            "required": ["email", "message", "name"],
            "properties": {"email": {"type": "string"}, "message": {"type": "string"}, "name": {"type": "string"}}
        },
        "handler.FeedbackRequest": {
            "type": "object",
            "required": ["email", "feedback", "name"],
            "properties": {"email": {"type": "string"}, "feedback": {"type": "string"}, "name": {"type": "string"}}
        },
        "handler.NoticeRequest": {
            "type": "object",
            "required": ["email"],
            "properties": {"email": {"type": "string"}, "name": {"type": "string"}}
        },
        "handler.RelayResponse": {
            "type": "object",
            "properties": {"delivered": {"type": "boolean"}, "status": {"type": "string", "example": "received"}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:4000",
	BasePath:         "/api",
	Schemes:          []string{"http"},
	Title:            "TrackMyProgress API",
	Description:      "Study assistant, planner, weekly summary and form relay endpoints for TrackMyProgress.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
