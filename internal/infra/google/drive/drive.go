// Package drive adapts the Drive v3 API to the domain Lister and
// DocumentCreator ports.
package drive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	driveapi "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/vietddude/glossary/internal/core/domain"
)

const listFields = "nextPageToken, files(id, name, mimeType)"

// Client wraps a Drive service.
type Client struct {
	svc *driveapi.Service
}

// NewClient creates a Drive client using an authorized HTTP client.
func NewClient(ctx context.Context, httpClient *http.Client, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := driveapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// List returns the non-trashed children of parentID whose kind is in kinds.
// All result pages are collected.
func (c *Client) List(ctx context.Context, parentID string, kinds ...domain.Kind) ([]domain.ItemDescriptor, error) {
	return c.query(ctx, ChildrenQuery(parentID, kinds...))
}

// FindByNameAndKind returns every item named exactly name.
func (c *Client) FindByNameAndKind(ctx context.Context, name string, kind domain.Kind) ([]domain.ItemDescriptor, error) {
	return c.query(ctx, NameQuery(name, kind))
}

// Create makes an empty file and returns its id.
func (c *Client) Create(ctx context.Context, title, mimeType string) (string, error) {
	f, err := c.svc.Files.Create(&driveapi.File{
		Name:     title,
		MimeType: mimeType,
	}).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", err
	}
	return f.Id, nil
}

// Export downloads a document converted to mimeType.
func (c *Client) Export(ctx context.Context, documentID, mimeType string) ([]byte, error) {
	resp, err := c.svc.Files.Export(documentID, mimeType).Context(ctx).Download()
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read export of %s: %w", documentID, err)
	}
	return data, nil
}

func (c *Client) query(ctx context.Context, q string) ([]domain.ItemDescriptor, error) {
	var items []domain.ItemDescriptor
	pageToken := ""
	for {
		call := c.svc.Files.List().Q(q).Fields(listFields).Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		res, err := call.Do()
		if err != nil {
			return nil, err
		}

		for _, f := range res.Files {
			kind, ok := KindOf(f.MimeType)
			if !ok {
				continue
			}
			items = append(items, domain.ItemDescriptor{
				ID:   f.Id,
				Name: f.Name,
				Kind: kind,
			})
		}

		if res.NextPageToken == "" {
			return items, nil
		}
		pageToken = res.NextPageToken
	}
}

// ChildrenQuery builds the Drive search expression for listing a folder.
func ChildrenQuery(parentID string, kinds ...domain.Kind) string {
	q := fmt.Sprintf("'%s' in parents and trashed = false", escape(parentID))
	if len(kinds) == 0 {
		return q
	}

	clauses := make([]string, 0, len(kinds))
	for _, k := range kinds {
		clauses = append(clauses, fmt.Sprintf("mimeType = '%s'", MimeTypeOf(k)))
	}
	return q + " and (" + strings.Join(clauses, " or ") + ")"
}

// NameQuery builds the Drive search expression for an exact-name lookup.
func NameQuery(name string, kind domain.Kind) string {
	return fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false",
		escape(name), MimeTypeOf(kind))
}

// MimeTypeOf maps a domain kind to its Drive mime type.
func MimeTypeOf(k domain.Kind) string {
	if k == domain.KindFolder {
		return domain.MimeTypeFolder
	}
	return domain.MimeTypeDocument
}

// KindOf maps a Drive mime type to a domain kind.
func KindOf(mimeType string) (domain.Kind, bool) {
	switch mimeType {
	case domain.MimeTypeDocument:
		return domain.KindDocument, true
	case domain.MimeTypeFolder:
		return domain.KindFolder, true
	default:
		return "", false
	}
}

var queryEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func escape(s string) string {
	return queryEscaper.Replace(s)
}
