package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Painel Escolar BI API",
        "description": "Read-only aggregation API behind the school business-intelligence dashboard",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Analytics", "description": "Registry metrics over students, grades and attendance"},
        {"name": "Clients", "description": "Student population breakdowns"},
        {"name": "Finance", "description": "Billing and satisfaction aggregates"},
        {"name": "Exams", "description": "National exam aggregate statistics"}
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
                    "503": {"description": "Database unavailable"}
                }
            }
        },
        "/api/v1/analytics": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Run a registry metric",
                "parameters": [
                    {"name": "metric", "in": "query", "required": true, "type": "string"},
                    {"name": "unidade", "in": "query", "type": "string"},
                    {"name": "segmento", "in": "query", "type": "string"},
                    {"name": "turma", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/MetricRow"}}},
                    "400": {"description": "Unknown or missing metric", "schema": {"$ref": "#/definitions/APIError"}},
                    "500": {"description": "Query failure", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/api/v1/analytics/export": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Download a metric as CSV or PDF",
                "parameters": [
                    {"name": "metric", "in": "query", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "unidade", "in": "query", "type": "string"},
                    {"name": "segmento", "in": "query", "type": "string"},
                    {"name": "turma", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File download"},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/api/v1/clients-summary": {
            "get": {
                "tags": ["Clients"],
                "summary": "Clients page KPIs and breakdowns",
                "responses": {
                    "200": {"description": "OK"},
                    "500": {"description": "Query failure", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/api/v1/finance-summary": {
            "get": {
                "tags": ["Finance"],
                "summary": "Finance page KPIs, monthly revenue and status breakdown",
                "responses": {
                    "200": {"description": "OK"},
                    "500": {"description": "Query failure", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/api/v1/exam-national-stats": {
            "get": {
                "tags": ["Exams"],
                "summary": "Country-wide exam aggregates",
                "parameters": [
                    {"name": "tp_escola", "in": "query", "type": "string", "description": "School type label, 'Todas' or absent for unfiltered"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "500": {"description": "Query failure", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/api/v1/exam-city-breakdown": {
            "get": {
                "tags": ["Exams"],
                "summary": "City drilldown for one state",
                "parameters": [
                    {"name": "uf", "in": "query", "required": true, "type": "string"},
                    {"name": "tp_escola", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Missing uf", "schema": {"$ref": "#/definitions/APIError"}},
                    "500": {"description": "Query failure", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        }
    },
    "definitions": {
        "MetricRow": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "unitId": {"type": "string"},
                "unitLabel": {"type": "string"},
                "segmentId": {"type": "string"},
                "segmentLabel": {"type": "string"},
                "classId": {"type": "string"},
                "classLabel": {"type": "string"},
                "subjectId": {"type": "string"},
                "subjectLabel": {"type": "string"},
                "year": {"type": "integer"},
                "value": {"type": "number"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "details": {"type": "string"},
                "hint": {"type": "string"}
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
