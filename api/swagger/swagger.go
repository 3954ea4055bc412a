package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "UniKL DCMS API",
        "description": "Digital Course Management System for UniKL campuses",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Login and session"},
        {"name": "Content", "description": "Campus / mode / programme / course / task tree"},
        {"name": "Users", "description": "Admin account management"},
        {"name": "Activities", "description": "Activity feed and announcements"},
        {"name": "Dashboard", "description": "Aggregated progress views"},
        {"name": "Reports", "description": "Printable progress reports"},
        {"name": "Wizard", "description": "Campus creation chain"},
        {"name": "FormState", "description": "Admin panel tab guard"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate and receive an access token",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/campuses": {
            "get": {
                "tags": ["Content"],
                "summary": "List all campuses with their content trees",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Content"],
                "summary": "Create a campus",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Duplicate campus"}
                }
            }
        },
        "/campuses/{id}": {
            "get": {
                "tags": ["Content"],
                "summary": "Fetch one campus subtree",
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "tags": ["Content"],
                "summary": "Rename a campus",
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Content"],
                "summary": "Delete a campus and its whole subtree",
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/users": {
            "get": {
                "tags": ["Users"],
                "summary": "List admin accounts",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Users"],
                "summary": "Create an admin account",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/activities": {
            "get": {
                "tags": ["Activities"],
                "summary": "List the activity feed, newest first",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/dashboard/university": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "University-wide dashboard overview",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reports": {
            "post": {
                "tags": ["Reports"],
                "summary": "Queue a progress report",
                "responses": {"202": {"description": "Accepted"}}
            }
        }
    },
    "definitions": {
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
                "pagination": {"type": "object"},
                "meta": {"type": "object"}
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
