package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dkildau/passctl/internal/cli"
	"github.com/dkildau/passctl/pkg/store"
)

// EntryListInput represents input for the entry_list tool.
type EntryListInput struct {
	Pattern string `json:"pattern,omitempty"`
}

// EntryListOutput represents output for the entry_list tool.
type EntryListOutput struct {
	Paths []string `json:"paths"`
}

// EntryExistsInput represents input for the entry_exists tool.
type EntryExistsInput struct {
	Path string `json:"path"`
}

// EntryExistsOutput represents output for the entry_exists tool.
type EntryExistsOutput struct {
	Path     string `json:"path"`
	Exists   bool   `json:"exists"`
	IsFolder bool   `json:"is_folder"`
}

// EntryGetMaskedInput represents input for the entry_get_masked tool.
type EntryGetMaskedInput struct {
	Path string `json:"path"`
}

// EntryGetMaskedOutput represents output for the entry_get_masked tool.
// The password is masked; the TOTP secret is reported only as present.
type EntryGetMaskedOutput struct {
	Path           string `json:"path"`
	MaskedPassword string `json:"masked_password"`
	PasswordLength int    `json:"password_length"`
	Username       string `json:"username,omitempty"`
	URL            string `json:"url,omitempty"`
	Notes          string `json:"notes,omitempty"`
	HasTOTP        bool   `json:"has_totp"`
	RecoveryCodes  int    `json:"recovery_codes"`
}

// EntrySearchInput represents input for the entry_search tool.
type EntrySearchInput struct {
	Query string `json:"query"`
}

// EntrySearchOutput represents output for the entry_search tool.
type EntrySearchOutput struct {
	Paths []string `json:"paths"`
}

// TOTPCodeInput represents input for the totp_code tool.
type TOTPCodeInput struct {
	Path string `json:"path"`
}

// TOTPCodeOutput represents output for the totp_code tool.
type TOTPCodeOutput struct {
	Path string `json:"path"`
	Code string `json:"code"`
}

// handleEntryList handles the entry_list tool call.
func (s *Server) handleEntryList(_ context.Context, _ *mcp.CallToolRequest, input EntryListInput) (*mcp.CallToolResult, EntryListOutput, error) {
	paths, err := s.store.List()
	if err != nil {
		return nil, EntryListOutput{}, fmt.Errorf("failed to list entries: %w", err)
	}
	paths, err = cli.FilterPaths(paths, input.Pattern)
	if err != nil {
		return nil, EntryListOutput{}, err
	}
	return nil, EntryListOutput{Paths: paths}, nil
}

// handleEntryExists handles the entry_exists tool call.
func (s *Server) handleEntryExists(ctx context.Context, _ *mcp.CallToolRequest, input EntryExistsInput) (*mcp.CallToolResult, EntryExistsOutput, error) {
	entry, err := s.store.GetDetails(ctx, input.Path)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, EntryExistsOutput{Path: input.Path}, nil
		}
		return nil, EntryExistsOutput{}, fmt.Errorf("failed to look up entry: %w", err)
	}
	return nil, EntryExistsOutput{
		Path:     input.Path,
		Exists:   true,
		IsFolder: entry.IsFolder,
	}, nil
}

// handleEntryGetMasked handles the entry_get_masked tool call.
func (s *Server) handleEntryGetMasked(ctx context.Context, _ *mcp.CallToolRequest, input EntryGetMaskedInput) (*mcp.CallToolResult, EntryGetMaskedOutput, error) {
	entry, err := s.store.GetDetails(ctx, input.Path)
	if err != nil {
		return nil, EntryGetMaskedOutput{}, fmt.Errorf("failed to get entry: %w", err)
	}
	if entry.IsFolder {
		return nil, EntryGetMaskedOutput{}, fmt.Errorf("%s is a folder", input.Path)
	}

	return nil, EntryGetMaskedOutput{
		Path:           input.Path,
		MaskedPassword: maskValue(entry.Fields.Password),
		PasswordLength: len(entry.Fields.Password),
		Username:       entry.Fields.Username,
		URL:            entry.Fields.URL,
		Notes:          entry.Fields.Notes,
		HasTOTP:        entry.Fields.TOTPSecret != "",
		RecoveryCodes:  len(entry.Fields.RecoveryCodes),
	}, nil
}

// handleEntrySearch handles the entry_search tool call.
func (s *Server) handleEntrySearch(ctx context.Context, _ *mcp.CallToolRequest, input EntrySearchInput) (*mcp.CallToolResult, EntrySearchOutput, error) {
	paths, err := s.store.Search(ctx, input.Query)
	if err != nil {
		return nil, EntrySearchOutput{}, fmt.Errorf("search failed: %w", err)
	}
	return nil, EntrySearchOutput{Paths: paths}, nil
}

// handleTOTPCode handles the totp_code tool call.
func (s *Server) handleTOTPCode(ctx context.Context, _ *mcp.CallToolRequest, input TOTPCodeInput) (*mcp.CallToolResult, TOTPCodeOutput, error) {
	entry, err := s.store.GetDetails(ctx, input.Path)
	if err != nil {
		return nil, TOTPCodeOutput{}, fmt.Errorf("failed to get entry: %w", err)
	}
	if entry.Fields.TOTPSecret == "" {
		return nil, TOTPCodeOutput{}, fmt.Errorf("entry %s has no totp secret", input.Path)
	}
	code, err := store.TOTPCode(entry.Fields.TOTPSecret, time.Now())
	if err != nil {
		return nil, TOTPCodeOutput{}, err
	}
	return nil, TOTPCodeOutput{Path: input.Path, Code: code}, nil
}

// maskValue shows only the last 4 characters of a secret, and nothing at
// all for short values.
func maskValue(value string) string {
	if len(value) <= 8 {
		return strings.Repeat("*", len(value))
	}
	return "****" + value[len(value)-4:]
}
