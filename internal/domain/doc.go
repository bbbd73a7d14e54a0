// Package domain contains the core business concepts for the toolszone backend.
// Keep this package free of transport (HTTP) and infrastructure (Postgres/Redis/Chrome) concerns.
package domain
