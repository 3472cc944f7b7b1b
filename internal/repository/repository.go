// Package repository provides durable storage for incident records.
package repository

import (
	"context"
	"errors"

	"github.com/jasonachkar/secure-api-gateway-sub000/internal/models"
)

var ErrIncidentNotFound = errors.New("incident not found")

// Repository defines the interface for incident persistence.
//
// Writes are whole-record replacements: every mutation rereads, mutates in
// memory and rewrites the full record. There is no optimistic concurrency
// control, so concurrent updates to the same incident are last-write-wins.
type Repository interface {
	// Create persists a new incident and indexes it by creation time.
	Create(ctx context.Context, inc *models.Incident) error

	// Get returns the incident or ErrIncidentNotFound when the id is unknown
	// or the record has expired.
	Get(ctx context.Context, id string) (*models.Incident, error)

	// List returns incidents in descending creation order within
	// [offset, offset+limit), with status/severity/type filters applied
	// after retrieval. Records that expired after being indexed are skipped.
	List(ctx context.Context, req *models.ListIncidentsRequest) ([]*models.Incident, error)

	// Update overwrites the full record and refreshes its retention window.
	Update(ctx context.Context, inc *models.Incident) error

	// ListRecent returns up to n of the most recently created incidents.
	ListRecent(ctx context.Context, n int) ([]*models.Incident, error)

	// Ping verifies connectivity to the backing store.
	Ping(ctx context.Context) error

	Close() error
}
