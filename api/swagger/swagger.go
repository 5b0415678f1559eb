package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Plan Conflicts API",
        "description": "Course conflict scoring over student four-year plans",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Conflicts", "description": "Ranked conflicts, matrix and exports"},
        {"name": "Courses", "description": "Offering rules"},
        {"name": "Students", "description": "Graduation standing"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Planning data source or cache unreachable"}
                }
            }
        },
        "/metrics": {
            "get": {
                "summary": "Prometheus metrics",
                "produces": ["text/plain"],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/v1/conflicts": {
            "get": {
                "tags": ["Conflicts"],
                "summary": "Ranked course conflicts for a semester",
                "parameters": [
                    {"name": "semester", "in": "query", "required": true, "type": "string", "description": "Semester token, e.g. sp2026"},
                    {"name": "offered_only", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ConflictListEnvelope"}},
                    "400": {"description": "Invalid semester", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Planning data unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/conflicts/matrix": {
            "get": {
                "tags": ["Conflicts"],
                "summary": "Conflict matrix over offered courses",
                "parameters": [
                    {"name": "semester", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/MatrixEnvelope"}},
                    "400": {"description": "Invalid semester", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/conflicts/export": {
            "get": {
                "tags": ["Conflicts"],
                "summary": "Download the conflict list",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "semester", "in": "query", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "offered_only", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}},
                    "400": {"description": "Invalid semester or format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/conflicts/cache": {
            "delete": {
                "tags": ["Conflicts"],
                "summary": "Drop cached reports and the offering table",
                "responses": {
                    "204": {"description": "Invalidated"}
                }
            }
        },
        "/api/v1/courses/{id}/offering": {
            "get": {
                "tags": ["Courses"],
                "summary": "Whether a course is offered in a semester",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "semester", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No offering information", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/courses/{id}/next-offering": {
            "get": {
                "tags": ["Courses"],
                "summary": "Next semester a course is offered",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "from_year", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No offering information", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/students/{id}/standing": {
            "get": {
                "tags": ["Students"],
                "summary": "Student standing for a semester",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "semester", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Student not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "ConflictItem": {
            "type": "object",
            "properties": {
                "courseA": {"type": "string"},
                "courseB": {"type": "string"},
                "courseAId": {"type": "string"},
                "courseBId": {"type": "string"},
                "courseATitle": {"type": "string"},
                "courseBTitle": {"type": "string"},
                "overlap": {"type": "integer"},
                "conflictScore": {"type": "number"},
                "conflictLevel": {"type": "string", "enum": ["high", "medium", "low"]},
                "rarityImpact": {"type": "string"},
                "seniorityImpact": {"type": "string"},
                "explanation": {"type": "string"},
                "studentIds": {"type": "array", "items": {"type": "string"}}
            }
        },
        "CourseSummary": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "code": {"type": "string"},
                "title": {"type": "string"},
                "department": {"type": "string"},
                "number": {"type": "string"}
            }
        },
        "ConflictList": {
            "type": "object",
            "properties": {
                "semester": {"type": "string"},
                "conflicts": {"type": "array", "items": {"$ref": "#/definitions/ConflictItem"}},
                "message": {"type": "string"}
            }
        },
        "Matrix": {
            "type": "object",
            "properties": {
                "semester": {"type": "string"},
                "courses": {"type": "array", "items": {"$ref": "#/definitions/CourseSummary"}},
                "matrix": {"type": "array", "items": {"type": "array", "items": {"type": "number"}}},
                "conflicts": {"type": "array", "items": {"$ref": "#/definitions/ConflictItem"}},
                "totalOffered": {"type": "integer"},
                "totalPlanned": {"type": "integer"},
                "message": {"type": "string"}
            }
        },
        "ConflictListEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/ConflictList"},
                "meta": {"type": "object"}
            }
        },
        "MatrixEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/Matrix"},
                "meta": {"type": "object"}
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
