// Package docs registers the Swagger spec served at /swagger.
// Regenerate with: swag init -g cmd/api/main.go -o internal/docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "termsOfService": "http://swagger.io/terms/",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/household": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Create a household owned by the authenticated user",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "household"
                ],
                "summary": "Create household",
                "parameters": [
                    {
                        "description": "Household details",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Household created"
                    },
                    "400": {
                        "description": "Invalid input"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "409": {
                        "description": "User already has a household"
                    },
                    "500": {
                        "description": "Server error"
                    }
                }
            },
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Get the household of the authenticated user",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "household"
                ],
                "summary": "Get household",
                "responses": {
                    "200": {
                        "description": "Household details"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "404": {
                        "description": "Household not found"
                    },
                    "500": {
                        "description": "Server error"
                    }
                }
            },
            "put": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Update the pay rule, joint ratio or category split. Existing cycles keep their dates.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "household"
                ],
                "summary": "Update household",
                "parameters": [
                    {
                        "description": "Updated household details",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Updated household"
                    },
                    "400": {
                        "description": "Invalid input"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "404": {
                        "description": "Household not found"
                    },
                    "500": {
                        "description": "Server error"
                    }
                }
            }
        },
        "/household/partner": {
            "put": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Seat a second member in the household. Only the owner can do this.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "household"
                ],
                "summary": "Add partner",
                "parameters": [
                    {
                        "description": "Partner user",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Updated household"
                    },
                    "400": {
                        "description": "Invalid input"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "403": {
                        "description": "Caller is not the owner"
                    },
                    "409": {
                        "description": "Partner seat taken"
                    },
                    "500": {
                        "description": "Server error"
                    }
                }
            },
            "delete": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Remove the partner from the household. Only the owner can do this.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "household"
                ],
                "summary": "Remove partner",
                "responses": {
                    "200": {
                        "description": "Updated household"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "403": {
                        "description": "Caller is not the owner"
                    },
                    "500": {
                        "description": "Server error"
                    }
                }
            }
        },
        "/income-sources": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Add a recurring income to the household",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "income-sources"
                ],
                "summary": "Create income source",
                "parameters": [
                    {
                        "description": "Income source details",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Income source created"
                    },
                    "400": {
                        "description": "Invalid input"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "404": {
                        "description": "Household not found"
                    },
                    "500": {
                        "description": "Server error"
                    }
                }
            },
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "List income sources in creation order",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "income-sources"
                ],
                "summary": "List income sources",
                "parameters": [
                    {
                        "description": "Only active sources",
                        "name": "active",
                        "in": "query",
                        "type": "boolean"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Income sources"
                    },
                    "400": {
                        "description": "Invalid input"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "500": {
                        "description": "Server error"
                    }
                }
            }
        },
        "/income-sources/{id}": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "income-sources"
                ],
                "summary": "Get income source",
                "parameters": [
                    {
                        "description": "Income source ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Income source"
                    },
                    "400": {
                        "description": "Invalid ID"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "404": {
                        "description": "Income source not found"
                    },
                    "500": {
                        "description": "Server error"
                    }
                }
            },
            "put": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "income-sources"
                ],
                "summary": "Update income source",
                "parameters": [
                    {
                        "description": "Income source ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "description": "Updated fields",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Updated income source"
                    },
                    "400": {
                        "description": "Invalid input"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "404": {
                        "description": "Income source not found"
                    },
                    "500": {
                        "description": "Server error"
                    }
                }
            },
            "delete": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Soft-disable an income source; it no longer counts towards new cycles",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "income-sources"
                ],
                "summary": "Deactivate income source",
                "parameters": [
                    {
                        "description": "Income source ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Income source deactivated"
                    },
                    "400": {
                        "description": "Invalid ID"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "404": {
                        "description": "Income source not found"
                    },
                    "500": {
                        "description": "Server error"
                    }
                }
            }
        },
        "/paycycles/start": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Create the active cycle containing today from the household's pay rule",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "paycycles"
                ],
                "summary": "Start first pay cycle",
                "responses": {
                    "201": {
                        "description": "Pay cycle created"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "404": {
                        "description": "Household not found"
                    },
                    "409": {
                        "description": "Household already has cycles"
                    },
                    "500": {
                        "description": "Server error"
                    }
                }
            }
        },
        "/paycycles/{id}/next": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Create the cycle following the given one, carrying its recurring seeds",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "paycycles"
                ],
                "summary": "Create next pay cycle",
                "parameters": [
                    {
                        "description": "Current pay cycle ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "description": "Status of the new cycle (draft or active, default draft)",
                        "name": "request",
                        "in": "body",
                        "required": false,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Pay cycle created"
                    },
                    "400": {
                        "description": "Invalid input"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "404": {
                        "description": "Pay cycle not found"
                    },
                    "409": {
                        "description": "Conflicting cycle exists"
                    },
                    "500": {
                        "description": "Server error"
                    }
                }
            }
        },
        "/paycycles/{id}/resync": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Copy the active cycle's recurring seeds into the draft, updating matches by name and type",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "paycycles"
                ],
                "summary": "Re-sync draft",
                "parameters": [
                    {
                        "description": "Draft pay cycle ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "description": "Active cycle to copy from",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Updated draft"
                    },
                    "400": {
                        "description": "Invalid input"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "404": {
                        "description": "Pay cycle not found"
                    },
                    "409": {
                        "description": "Wrong cycle status"
                    },
                    "500": {
                        "description": "Server error"
                    }
                }
            }
        },
        "/paycycles/{id}/close": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "paycycles"
                ],
                "summary": "Close planning ritual",
                "parameters": [
                    {
                        "description": "Pay cycle ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Closed pay cycle"
                    },
                    "400": {
                        "description": "Invalid ID"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "404": {
                        "description": "Pay cycle not found"
                    },
                    "409": {
                        "description": "Already closed"
                    },
                    "500": {
                        "description": "Server error"
                    }
                }
            }
        },
        "/paycycles/{id}/unlock": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "paycycles"
                ],
                "summary": "Unlock planning ritual",
                "parameters": [
                    {
                        "description": "Pay cycle ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Unlocked pay cycle"
                    },
                    "400": {
                        "description": "Invalid ID"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "404": {
                        "description": "Pay cycle not found"
                    },
                    "409": {
                        "description": "Not closed"
                    },
                    "500": {
                        "description": "Server error"
                    }
                }
            }
        },
        "/paycycles/{id}/recalculate": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "paycycles"
                ],
                "summary": "Recalculate allocations",
                "parameters": [
                    {
                        "description": "Pay cycle ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Pay cycle with fresh totals"
                    },
                    "400": {
                        "description": "Invalid ID"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "404": {
                        "description": "Pay cycle not found"
                    },
                    "500": {
                        "description": "Server error"
                    }
                }
            }
        },
        "/paycycles/{id}/complete": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Complete an ended active cycle and activate the next one (promoting the draft when present)",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "paycycles"
                ],
                "summary": "Complete pay cycle",
                "parameters": [
                    {
                        "description": "Active pay cycle ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Completed and new active cycle"
                    },
                    "400": {
                        "description": "Invalid ID"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "404": {
                        "description": "Pay cycle not found"
                    },
                    "409": {
                        "description": "Cycle not active or not ended"
                    },
                    "500": {
                        "description": "Server error"
                    }
                }
            }
        },
        "/paycycles/current": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "paycycles"
                ],
                "summary": "Get current pay cycle",
                "responses": {
                    "200": {
                        "description": "Active pay cycle"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "404": {
                        "description": "No active cycle"
                    },
                    "500": {
                        "description": "Server error"
                    }
                }
            }
        },
        "/paycycles/{id}": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "paycycles"
                ],
                "summary": "Get pay cycle",
                "parameters": [
                    {
                        "description": "Pay cycle ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Pay cycle"
                    },
                    "400": {
                        "description": "Invalid ID"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "404": {
                        "description": "Pay cycle not found"
                    },
                    "500": {
                        "description": "Server error"
                    }
                }
            }
        },
        "/paycycles": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Paginated cycles, most recent first",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "paycycles"
                ],
                "summary": "List pay cycles",
                "parameters": [
                    {
                        "description": "Filter by status (draft/active/completed)",
                        "name": "status",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "Page number (default 1)",
                        "name": "page",
                        "in": "query",
                        "type": "integer"
                    },
                    {
                        "description": "Items per page (default 20, max 100)",
                        "name": "page_size",
                        "in": "query",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Paginated pay cycles"
                    },
                    "400": {
                        "description": "Invalid input"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "500": {
                        "description": "Server error"
                    }
                }
            }
        },
        "/paycycles/{id}/mark-overdue": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Mark every unpaid seed due before today as paid",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "paycycles"
                ],
                "summary": "Mark overdue seeds paid",
                "parameters": [
                    {
                        "description": "Pay cycle ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Number of seeds marked"
                    },
                    "400": {
                        "description": "Invalid ID"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "404": {
                        "description": "Pay cycle not found"
                    },
                    "500": {
                        "description": "Server error"
                    }
                }
            }
        },
        "/paycycles/{id}/income": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Income payments falling inside the cycle, per source",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "paycycles"
                ],
                "summary": "Get income events",
                "parameters": [
                    {
                        "description": "Pay cycle ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Income projection"
                    },
                    "400": {
                        "description": "Invalid ID"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "404": {
                        "description": "Pay cycle not found"
                    },
                    "500": {
                        "description": "Server error"
                    }
                }
            }
        },
        "/paycycles/{id}/seeds": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Add a budget line to a pay cycle; allocation totals are recomputed",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "seeds"
                ],
                "summary": "Create seed",
                "parameters": [
                    {
                        "description": "Pay cycle ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "description": "Seed details",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Seed created"
                    },
                    "400": {
                        "description": "Invalid input"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "404": {
                        "description": "Pay cycle, pot or repayment not found"
                    },
                    "409": {
                        "description": "Cycle completed"
                    },
                    "500": {
                        "description": "Server error"
                    }
                }
            },
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "seeds"
                ],
                "summary": "List seeds",
                "parameters": [
                    {
                        "description": "Pay cycle ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "description": "Filter by type (need/want/savings/repay)",
                        "name": "type",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "Page number (default 1)",
                        "name": "page",
                        "in": "query",
                        "type": "integer"
                    },
                    {
                        "description": "Items per page (default 20, max 100)",
                        "name": "page_size",
                        "in": "query",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Paginated seeds"
                    },
                    "400": {
                        "description": "Invalid input"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "404": {
                        "description": "Pay cycle not found"
                    },
                    "500": {
                        "description": "Server error"
                    }
                }
            }
        },
        "/seeds/{id}": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "seeds"
                ],
                "summary": "Get seed",
                "parameters": [
                    {
                        "description": "Seed ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Seed"
                    },
                    "400": {
                        "description": "Invalid ID"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "404": {
                        "description": "Seed not found"
                    },
                    "500": {
                        "description": "Server error"
                    }
                }
            },
            "put": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "seeds"
                ],
                "summary": "Update seed",
                "parameters": [
                    {
                        "description": "Seed ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "description": "Updated fields",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Updated seed"
                    },
                    "400": {
                        "description": "Invalid input"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "404": {
                        "description": "Seed not found"
                    },
                    "409": {
                        "description": "Cycle completed"
                    },
                    "500": {
                        "description": "Server error"
                    }
                }
            },
            "delete": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "seeds"
                ],
                "summary": "Delete seed",
                "parameters": [
                    {
                        "description": "Seed ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Seed deleted"
                    },
                    "400": {
                        "description": "Invalid ID"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "404": {
                        "description": "Seed not found"
                    },
                    "409": {
                        "description": "Cycle completed"
                    },
                    "500": {
                        "description": "Server error"
                    }
                }
            }
        },
        "/seeds/{id}/paid": {
            "put": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Paying a seed linked to a pot or repayment moves that balance",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "seeds"
                ],
                "summary": "Mark seed paid",
                "parameters": [
                    {
                        "description": "Seed ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "description": "Paid flag and payer",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Updated seed"
                    },
                    "400": {
                        "description": "Invalid input"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "404": {
                        "description": "Seed not found"
                    },
                    "409": {
                        "description": "Cycle completed"
                    },
                    "500": {
                        "description": "Server error"
                    }
                }
            }
        },
        "/pots": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "pots"
                ],
                "summary": "Create pot",
                "parameters": [
                    {
                        "description": "Pot details",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Pot created"
                    },
                    "400": {
                        "description": "Invalid input"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "500": {
                        "description": "Server error"
                    }
                }
            },
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "pots"
                ],
                "summary": "List pots",
                "parameters": [
                    {
                        "description": "Filter by status (active/paused/complete)",
                        "name": "status",
                        "in": "query",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Pots"
                    },
                    "400": {
                        "description": "Invalid input"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "500": {
                        "description": "Server error"
                    }
                }
            }
        },
        "/pots/{id}": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "pots"
                ],
                "summary": "Get pot",
                "parameters": [
                    {
                        "description": "Pot ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Pot"
                    },
                    "400": {
                        "description": "Invalid ID"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "404": {
                        "description": "Pot not found"
                    },
                    "500": {
                        "description": "Server error"
                    }
                }
            },
            "put": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "pots"
                ],
                "summary": "Update pot",
                "parameters": [
                    {
                        "description": "Pot ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "description": "Updated fields",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Updated pot"
                    },
                    "400": {
                        "description": "Invalid input"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "404": {
                        "description": "Pot not found"
                    },
                    "500": {
                        "description": "Server error"
                    }
                }
            },
            "delete": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "pots"
                ],
                "summary": "Delete pot",
                "parameters": [
                    {
                        "description": "Pot ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Pot deleted"
                    },
                    "400": {
                        "description": "Invalid ID"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "404": {
                        "description": "Pot not found"
                    },
                    "500": {
                        "description": "Server error"
                    }
                }
            }
        },
        "/repayments": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "repayments"
                ],
                "summary": "Create repayment",
                "parameters": [
                    {
                        "description": "Repayment details",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Repayment created"
                    },
                    "400": {
                        "description": "Invalid input"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "500": {
                        "description": "Server error"
                    }
                }
            },
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "repayments"
                ],
                "summary": "List repayments",
                "parameters": [
                    {
                        "description": "Filter by status (active/paused/paid)",
                        "name": "status",
                        "in": "query",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Repayments"
                    },
                    "400": {
                        "description": "Invalid input"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "500": {
                        "description": "Server error"
                    }
                }
            }
        },
        "/repayments/{id}": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "repayments"
                ],
                "summary": "Get repayment",
                "parameters": [
                    {
                        "description": "Repayment ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Repayment"
                    },
                    "400": {
                        "description": "Invalid ID"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "404": {
                        "description": "Repayment not found"
                    },
                    "500": {
                        "description": "Server error"
                    }
                }
            },
            "put": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "repayments"
                ],
                "summary": "Update repayment",
                "parameters": [
                    {
                        "description": "Repayment ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "description": "Updated fields",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Updated repayment"
                    },
                    "400": {
                        "description": "Invalid input"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "404": {
                        "description": "Repayment not found"
                    },
                    "500": {
                        "description": "Server error"
                    }
                }
            },
            "delete": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "repayments"
                ],
                "summary": "Delete repayment",
                "parameters": [
                    {
                        "description": "Repayment ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Repayment deleted"
                    },
                    "400": {
                        "description": "Invalid ID"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "404": {
                        "description": "Repayment not found"
                    },
                    "500": {
                        "description": "Server error"
                    }
                }
            }
        },
        "/repayments/{id}/forecast": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Project the balance per future cycle, the payoff date and a suggested amount for the target date",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "forecast"
                ],
                "summary": "Forecast repayment",
                "parameters": [
                    {
                        "description": "Repayment ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "description": "Amount paid each cycle (defaults to the linked recurring seed, then the suggestion)",
                        "name": "amount_per_cycle",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "Accrue interest each cycle",
                        "name": "include_interest",
                        "in": "query",
                        "type": "boolean"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Repayment forecast"
                    },
                    "400": {
                        "description": "Invalid input"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "404": {
                        "description": "Repayment not found"
                    },
                    "500": {
                        "description": "Server error"
                    }
                }
            }
        },
        "/pots/{id}/forecast": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Project the pot balance per future cycle, the goal date and a suggested amount for the target date",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "forecast"
                ],
                "summary": "Forecast pot",
                "parameters": [
                    {
                        "description": "Pot ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "description": "Amount saved each cycle (defaults to the linked recurring seed, then the suggestion)",
                        "name": "amount_per_cycle",
                        "in": "query",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Pot forecast"
                    },
                    "400": {
                        "description": "Invalid input"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "404": {
                        "description": "Pot not found"
                    },
                    "500": {
                        "description": "Server error"
                    }
                }
            }
        },
        "/forecast/lock-in": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Create or update the recurring seed that funds a pot or repayment in the current cycle",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "forecast"
                ],
                "summary": "Lock in amount",
                "parameters": [
                    {
                        "description": "Target and amount",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Recurring seed"
                    },
                    "400": {
                        "description": "Invalid input"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "404": {
                        "description": "No cycle, pot or repayment"
                    },
                    "500": {
                        "description": "Server error"
                    }
                }
            }
        },
        "/internal/cron/switchover": {
            "post": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "description": "Complete active cycles that ended before today and activate their successors",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "cron"
                ],
                "summary": "Run cycle switchover",
                "responses": {
                    "200": {
                        "description": "Run report"
                    },
                    "401": {
                        "description": "Invalid API key"
                    },
                    "500": {
                        "description": "Server error"
                    }
                }
            }
        },
        "/internal/cron/payday-reminder": {
            "post": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "description": "Publish a reminder for each active cycle ending today or tomorrow",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "cron"
                ],
                "summary": "Send payday reminders",
                "responses": {
                    "200": {
                        "description": "Run report"
                    },
                    "401": {
                        "description": "Invalid API key"
                    },
                    "500": {
                        "description": "Server error"
                    }
                }
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {
            "description": "Shared key of the external scheduler.",
            "type": "apiKey",
            "name": "X-API-Key",
            "in": "header"
        },
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Payday API",
	Description:      "Payday plans a household's money one pay cycle at a time: cycles derived from the pay rule, budget seeds split between partners, and forecasts for savings pots and repayments.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
