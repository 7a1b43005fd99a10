// Package docs adapts the Docs v1 API to the domain DocumentReader and
// DocumentWriter ports.
package docs

import (
	"context"
	"fmt"
	"net/http"

	docsapi "google.golang.org/api/docs/v1"
	"google.golang.org/api/option"

	"github.com/vietddude/glossary/internal/core/domain"
)

// Client wraps a Docs service.
type Client struct {
	svc *docsapi.Service
}

// NewClient creates a Docs client using an authorized HTTP client.
func NewClient(ctx context.Context, httpClient *http.Client, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := docsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create docs service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// GetBody fetches a document and converts its body to the domain shape.
func (c *Client) GetBody(ctx context.Context, documentID string) (*domain.Body, error) {
	doc, err := c.svc.Documents.Get(documentID).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return FromAPI(doc.Body), nil
}

// BatchUpdate applies ops in a single request.
func (c *Client) BatchUpdate(ctx context.Context, documentID string, ops []domain.StructuralOp) error {
	req := &docsapi.BatchUpdateDocumentRequest{Requests: ToAPI(ops)}
	_, err := c.svc.Documents.BatchUpdate(documentID, req).Context(ctx).Do()
	return err
}

// FromAPI keeps only the paragraph and text-run structure of a body.
func FromAPI(body *docsapi.Body) *domain.Body {
	out := &domain.Body{}
	if body == nil {
		return out
	}

	for _, se := range body.Content {
		el := domain.StructuralElement{}
		if se.Paragraph != nil {
			p := &domain.Paragraph{}
			for _, pe := range se.Paragraph.Elements {
				var run *domain.TextRun
				if pe.TextRun != nil {
					run = &domain.TextRun{Content: pe.TextRun.Content}
				}
				p.Elements = append(p.Elements, domain.ParagraphElement{TextRun: run})
			}
			el.Paragraph = p
		}
		out.Content = append(out.Content, el)
	}
	return out
}

// ToAPI maps structural operations to Docs requests, preserving order.
func ToAPI(ops []domain.StructuralOp) []*docsapi.Request {
	reqs := make([]*docsapi.Request, 0, len(ops))
	for _, op := range ops {
		switch {
		case op.InsertText != nil:
			reqs = append(reqs, &docsapi.Request{
				InsertText: &docsapi.InsertTextRequest{
					Location: &docsapi.Location{Index: op.InsertText.Index},
					Text:     op.InsertText.Text,
				},
			})
		case op.UpdateStyle != nil:
			reqs = append(reqs, &docsapi.Request{
				UpdateParagraphStyle: &docsapi.UpdateParagraphStyleRequest{
					Range: &docsapi.Range{
						StartIndex: op.UpdateStyle.StartIndex,
						EndIndex:   op.UpdateStyle.EndIndex,
					},
					ParagraphStyle: &docsapi.ParagraphStyle{
						NamedStyleType: op.UpdateStyle.NamedStyle,
					},
					Fields: "namedStyleType",
				},
			})
		}
	}
	return reqs
}
