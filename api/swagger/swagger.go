package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "ConstructERP Attendance API",
        "description": "Construction-site attendance tracking with a three-tier approval workflow",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Auth", "description": "Login and account operations"},
        {"name": "Dashboard", "description": "Landing-page aggregates"},
        {"name": "Attendance", "description": "Submission, review and approval workflow"},
        {"name": "Exports", "description": "Approved register exports"},
        {"name": "Users", "description": "Admin account management"},
        {"name": "Sites", "description": "Construction sites"},
        {"name": "Workers", "description": "Site labourers"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate and issue a JWT",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/auth/user": {
            "get": {
                "tags": ["Auth"],
                "summary": "Current user profile",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/auth/change-password": {
            "post": {
                "tags": ["Auth"],
                "summary": "Change own password",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ChangePasswordRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "403": {"description": "Wrong old password", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/dashboard/stats": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Site, worker and approval aggregates",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/attendance/submit": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Submit a daily attendance sheet (foreman)",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitAttendanceRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}},
                    "409": {"description": "Already submitted for date", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/attendance/save-draft": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Save an unsubmitted draft (foreman)",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitAttendanceRequest"}}
                ],
                "responses": {
                    "204": {"description": "Saved"}
                }
            }
        },
        "/attendance/draft/{date}": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Load a saved draft (foreman)",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "date", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "No draft", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/attendance/check/{date}": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Whether a sheet exists for the date",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "date", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/attendance/recent": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Recent records scoped by role",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/attendance/pending-review": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Sheets awaiting incharge review",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/attendance/review/{id}": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Review a sheet with optional edits (incharge)",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReviewRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "409": {"description": "Not in submitted state", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/attendance/pending-admin": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Sheets awaiting admin decision",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/attendance/admin-approve/{id}": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Final admin approval or rejection",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AdminDecisionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "409": {"description": "Not in reviewed state", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/attendance/approved": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Fully approved records (admin)",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/attendance/foreman/{foremanId}": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Submission history for one foreman (admin)",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "foremanId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/attendance/export": {
            "post": {
                "tags": ["Exports"],
                "summary": "Queue an approved-register export (admin)",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateExportRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/attendance/export/{id}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Poll export job status (admin)",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Unknown job", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/export/{token}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a finished export via signed token",
                "produces": ["application/octet-stream"],
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File stream"},
                    "403": {"description": "Invalid or expired token", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/admin/users": {
            "get": {
                "tags": ["Users"],
                "summary": "List accounts",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "role", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            },
            "post": {
                "tags": ["Users"],
                "summary": "Create an account",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateUserRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/admin/users/{id}": {
            "put": {
                "tags": ["Users"],
                "summary": "Update an account",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateUserRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            },
            "delete": {
                "tags": ["Users"],
                "summary": "Delete an account",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/sites": {
            "get": {
                "tags": ["Sites"],
                "summary": "List sites",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            },
            "post": {
                "tags": ["Sites"],
                "summary": "Create a site (admin)",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSiteRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/sites/{id}": {
            "put": {
                "tags": ["Sites"],
                "summary": "Update a site (admin)",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateSiteRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/workers/site/{siteId}": {
            "get": {
                "tags": ["Workers"],
                "summary": "List workers of a site",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "siteId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/workers": {
            "post": {
                "tags": ["Workers"],
                "summary": "Register a worker (foreman)",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateWorkerRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/workers/{id}": {
            "put": {
                "tags": ["Workers"],
                "summary": "Update a worker",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateWorkerRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            },
            "delete": {
                "tags": ["Workers"],
                "summary": "Delete a worker",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        }
    },
    "definitions": {
        "Envelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {"type": "object"},
                "message": {"type": "string"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["username", "password"]
        },
        "ChangePasswordRequest": {
            "type": "object",
            "properties": {
                "old_password": {"type": "string"},
                "new_password": {"type": "string"}
            },
            "required": ["old_password", "new_password"]
        },
        "SubmitEntry": {
            "type": "object",
            "properties": {
                "worker_id": {"type": "string"},
                "is_present": {"type": "boolean"},
                "formula_x": {"type": "integer"},
                "formula_y": {"type": "integer"},
                "remarks": {"type": "string"}
            },
            "required": ["worker_id"]
        },
        "SubmitAttendanceRequest": {
            "type": "object",
            "properties": {
                "date": {"type": "string", "format": "date"},
                "entries": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/SubmitEntry"}
                },
                "in_time": {"type": "string"},
                "out_time": {"type": "string"}
            },
            "required": ["date", "entries"]
        },
        "ReviewEntryEdit": {
            "type": "object",
            "properties": {
                "worker_id": {"type": "string"},
                "is_present": {"type": "boolean"},
                "formula_x": {"type": "integer"},
                "formula_y": {"type": "integer"},
                "remarks": {"type": "string"}
            },
            "required": ["worker_id"]
        },
        "ReviewRequest": {
            "type": "object",
            "properties": {
                "action": {"type": "string", "enum": ["approve", "reject"]},
                "edits": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/ReviewEntryEdit"}
                },
                "checked_worker_ids": {
                    "type": "array",
                    "items": {"type": "string"}
                },
                "comments": {"type": "string"}
            },
            "required": ["action"]
        },
        "AdminDecisionRequest": {
            "type": "object",
            "properties": {
                "action": {"type": "string", "enum": ["approve", "reject"]},
                "comments": {"type": "string"}
            },
            "required": ["action"]
        },
        "CreateExportRequest": {
            "type": "object",
            "properties": {
                "format": {"type": "string", "enum": ["csv", "pdf"]},
                "limit": {"type": "integer"}
            },
            "required": ["format"]
        },
        "CreateUserRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"},
                "role": {"type": "string", "enum": ["foreman", "site_incharge"]},
                "name": {"type": "string"},
                "father_name": {"type": "string"},
                "email": {"type": "string"},
                "site_id": {"type": "string"}
            },
            "required": ["username", "password", "role", "name"]
        },
        "UpdateUserRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "father_name": {"type": "string"},
                "email": {"type": "string"},
                "site_id": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "CreateSiteRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "location": {"type": "string"},
                "incharge_id": {"type": "string"}
            },
            "required": ["name", "location"]
        },
        "UpdateSiteRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "location": {"type": "string"},
                "incharge_id": {"type": "string"},
                "is_active": {"type": "boolean"}
            }
        },
        "CreateWorkerRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "father_name": {"type": "string"},
                "designation": {"type": "string"},
                "daily_wage": {"type": "number"},
                "site_id": {"type": "string"},
                "phone": {"type": "string"},
                "aadhar": {"type": "string"}
            },
            "required": ["name", "father_name", "designation", "daily_wage", "site_id"]
        },
        "UpdateWorkerRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "father_name": {"type": "string"},
                "designation": {"type": "string"},
                "daily_wage": {"type": "number"},
                "phone": {"type": "string"},
                "aadhar": {"type": "string"}
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
