package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Community Ticketing API",
        "description": "Eligibility, RSVP and ticketing API for community events",
        "version": "1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "auth", "description": "Passwordless login"},
        {"name": "events", "description": "Eligibility, RSVP and ticket creation"},
        {"name": "access", "description": "Whitelist and invitation requests"}
    ],
    "paths": {
        "/auth/code": {
            "post": {
                "tags": ["auth"],
                "summary": "Request a login code by email",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginCodeRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/APIResponse"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Exchange a login code for a token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/APIResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/APIResponse"}}
                }
            }
        },
        "/users/me": {
            "get": {
                "tags": ["auth"],
                "summary": "Get the authenticated user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/APIResponse"}}
                }
            },
            "patch": {
                "tags": ["auth"],
                "summary": "Update the authenticated user's profile",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateUserRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/APIResponse"}}
                }
            }
        },
        "/events/{eventID}/eligibility": {
            "get": {
                "tags": ["events"],
                "summary": "Check whether the user may attend the event",
                "parameters": [
                    {"name": "eventID", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/DecisionResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/APIResponse"}}
                }
            }
        },
        "/events/{eventID}/rsvp": {
            "post": {
                "tags": ["events"],
                "summary": "Answer the event RSVP",
                "parameters": [
                    {"name": "eventID", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RSVPRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/APIResponse"}},
                    "409": {"description": "Ineligible", "schema": {"$ref": "#/definitions/DecisionResponse"}}
                }
            }
        },
        "/events/{eventID}/tickets": {
            "post": {
                "tags": ["events"],
                "summary": "Create a ticket or start checkout",
                "parameters": [
                    {"name": "eventID", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTicketRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/APIResponse"}},
                    "409": {"description": "Ineligible", "schema": {"$ref": "#/definitions/DecisionResponse"}}
                }
            }
        },
        "/events/{eventID}/whitelist-requests": {
            "post": {
                "tags": ["access"],
                "summary": "Request whitelist clearance from the organization",
                "parameters": [
                    {"name": "eventID", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/APIResponse"}}
                }
            }
        },
        "/events/{eventID}/invitation-requests": {
            "post": {
                "tags": ["access"],
                "summary": "Request an invitation to a private event",
                "parameters": [
                    {"name": "eventID", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/APIResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "APIResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"}
            }
        },
        "Decision": {
            "type": "object",
            "properties": {
                "allowed": {"type": "boolean"},
                "event_id": {"type": "string"},
                "reason": {"type": "string"},
                "message": {"type": "string"},
                "next_step": {"type": "string"},
                "questionnaires_missing": {"type": "array", "items": {"type": "string"}},
                "questionnaires_pending_review": {"type": "array", "items": {"type": "string"}},
                "questionnaires_failed": {"type": "array", "items": {"type": "string"}},
                "retry_on": {"type": "string"},
                "missing_profile_fields": {"type": "array", "items": {"type": "string"}}
            }
        },
        "DecisionResponse": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/Decision"},
                "error": {"$ref": "#/definitions/APIError"}
            }
        },
        "LoginCodeRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "code": {"type": "string"}
            }
        },
        "UpdateUserRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "last_name": {"type": "string"}
            }
        },
        "RSVPRequest": {
            "type": "object",
            "properties": {
                "answer": {"type": "string", "enum": ["YES", "NO", "MAYBE"]}
            }
        },
        "CreateTicketRequest": {
            "type": "object",
            "properties": {
                "tier_id": {"type": "string"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
