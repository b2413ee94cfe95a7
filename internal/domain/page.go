package domain

import (
	"context"
	"errors"
)

// Page document defaults, matching what the editor has always written.
const (
	PageSlotKey      = "lowcodePageConfig"
	PageVersion      = "1.0"
	DefaultPageTitle = "低代码页面"
)

// LayoutType is the page-level layout strategy.
type LayoutType string

const (
	LayoutFlex LayoutType = "flex"
	LayoutGrid LayoutType = "grid"
	LayoutFree LayoutType = "free"
)

// LayoutConfig describes the page layout.
type LayoutConfig struct {
	Type  LayoutType     `json:"type"`
	Props map[string]any `json:"props"`
}

// PageConfig is the unit of persistence: the whole page as one document.
type PageConfig struct {
	Version    string       `json:"version"`
	Title      string       `json:"title"`
	Layout     LayoutConfig `json:"layout"`
	Components []*Component `json:"components"`
}

// ErrSlotNotFound is returned by a SlotStore when nothing was saved under a key.
var ErrSlotNotFound = errors.New("slot not found")

// SlotStore is a durable key-value slot holding serialized page documents.
type SlotStore interface {
	// Get returns the raw document stored under key, or ErrSlotNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put replaces the document stored under key.
	Put(ctx context.Context, key string, data []byte) error
	// Close releases the underlying connection.
	Close() error
}
