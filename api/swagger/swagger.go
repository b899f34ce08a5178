package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Leads API",
        "description": "CRUD backend for prospective-student leads and their academic enrollment history",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Leads", "description": "Lead registration and lookup"}
    ],
    "paths": {
        "/leads": {
            "get": {
                "tags": ["Leads"],
                "summary": "List leads",
                "parameters": [
                    {"name": "limit", "in": "query", "type": "integer", "description": "Page size, >= 0 (default 10)"},
                    {"name": "offset", "in": "query", "type": "integer", "description": "Rows to skip, >= 0 (default 0)"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Illegal limit/offset value"}
                }
            },
            "post": {
                "tags": ["Leads"],
                "summary": "Create a lead with nested enrollment history",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateLeadRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload"},
                    "409": {"description": "Duplicate enrollment term or registration"}
                }
            }
        },
        "/leads/{id}": {
            "get": {
                "tags": ["Leads"],
                "summary": "Get a lead with its enrollment history",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Lead not found"}
                }
            }
        }
    },
    "definitions": {
        "CreateLeadRequest": {
            "type": "object",
            "required": ["name", "surname"],
            "properties": {
                "name": {"type": "string"},
                "surname": {"type": "string"},
                "email": {"type": "string"},
                "address": {"type": "string"},
                "phone": {"type": "string"},
                "enrollments": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/EnrollmentTermInput"}
                }
            }
        },
        "EnrollmentTermInput": {
            "type": "object",
            "required": ["career", "year"],
            "properties": {
                "career": {"type": "string"},
                "year": {"type": "integer"},
                "university": {"type": "string"},
                "registrations": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/RegistrationInput"}
                }
            }
        },
        "RegistrationInput": {
            "type": "object",
            "required": ["course", "times_taken"],
            "properties": {
                "course": {"type": "string"},
                "times_taken": {"type": "integer", "minimum": 1}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "limit": {"type": "integer"},
                "offset": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"}
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
