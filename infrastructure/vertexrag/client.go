package vertexrag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"rag-corpus-dedup/domain/corpus"
	"rag-corpus-dedup/infrastructure/credentials"

	aiplatform "cloud.google.com/go/aiplatform/apiv1beta1"
	"cloud.google.com/go/aiplatform/apiv1beta1/aiplatformpb"
	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// listPageSize is the page size requested from ListRagFiles
const listPageSize = 100

// RagDataService defines the interface for Vertex AI RAG data API operations
// This allows mocking the RAG data API in tests
type RagDataService interface {
	ListRagFiles(ctx context.Context, req *aiplatformpb.ListRagFilesRequest) ([]*aiplatformpb.RagFile, error)
	DeleteRagFile(ctx context.Context, name string) error
	Close() error
}

// GoogleRagDataService is the production implementation using the Vertex AI RAG data API
type GoogleRagDataService struct {
	client *aiplatform.VertexRagDataClient
}

// ListRagFiles pages through every file under req.Parent
func (s *GoogleRagDataService) ListRagFiles(ctx context.Context, req *aiplatformpb.ListRagFilesRequest) ([]*aiplatformpb.RagFile, error) {
	it := s.client.ListRagFiles(ctx, req)

	var files []*aiplatformpb.RagFile
	for {
		f, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// DeleteRagFile deletes a file and waits on the long-running operation
func (s *GoogleRagDataService) DeleteRagFile(ctx context.Context, name string) error {
	op, err := s.client.DeleteRagFile(ctx, &aiplatformpb.DeleteRagFileRequest{Name: name})
	if err != nil {
		return err
	}
	return op.Wait(ctx)
}

// Close releases the underlying gRPC connection
func (s *GoogleRagDataService) Close() error {
	return s.client.Close()
}

// Client implements corpus.CorpusClient using the Vertex AI RAG data API
type Client struct {
	ragService RagDataService
	logger     *slog.Logger
}

// ClientOption is a functional option for configuring Client
type ClientOption func(*Client)

// WithRagDataService sets a custom RAG data service (for testing)
func WithRagDataService(svc RagDataService) ClientOption {
	return func(c *Client) {
		c.ragService = svc
	}
}

// WithLogger sets the logger for the Client
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new RAG corpus client for the given location.
// If no RAG data service is provided, it connects to the regional endpoint
// using credentials from src.
func NewClient(ctx context.Context, location string, src credentials.Source, opts ...ClientOption) (*Client, error) {
	c := &Client{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.ragService == nil {
		svc, err := newGoogleRagDataService(ctx, location, src)
		if err != nil {
			return nil, err
		}
		c.ragService = svc
	}

	return c, nil
}

// newGoogleRagDataService creates a production RAG data client bound to location
func newGoogleRagDataService(ctx context.Context, location string, src credentials.Source) (*GoogleRagDataService, error) {
	creds, err := src.Detect()
	if err != nil {
		return nil, err
	}

	client, err := aiplatform.NewVertexRagDataClient(ctx,
		option.WithAuthCredentials(creds),
		option.WithEndpoint(Endpoint(location)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vertex RAG data client: %w", err)
	}

	return &GoogleRagDataService{client: client}, nil
}

// Endpoint returns the regional Vertex AI endpoint for location
func Endpoint(location string) string {
	return fmt.Sprintf("%s-aiplatform.googleapis.com:443", location)
}

// ListFiles implements corpus.CorpusClient
func (c *Client) ListFiles(ctx context.Context, corpusName string) ([]corpus.FileRecord, error) {
	c.logger.DebugContext(ctx, "Listing files in RAG corpus",
		slog.String("parent", corpusName),
	)

	files, err := c.ragService.ListRagFiles(ctx, &aiplatformpb.ListRagFilesRequest{
		Parent:   corpusName,
		PageSize: listPageSize,
	})
	if err != nil {
		return nil, classify("list", corpusName, err)
	}

	result := make([]corpus.FileRecord, 0, len(files))
	for _, f := range files {
		result = append(result, toFileRecord(f))
	}

	c.logger.DebugContext(ctx, "Listed files successfully",
		slog.Int("count", len(result)),
	)
	return result, nil
}

// DeleteFile implements corpus.CorpusClient
func (c *Client) DeleteFile(ctx context.Context, identifier string) error {
	c.logger.DebugContext(ctx, "Deleting RAG file",
		slog.String("name", identifier),
	)

	if err := c.ragService.DeleteRagFile(ctx, identifier); err != nil {
		return classify("delete", identifier, err)
	}

	c.logger.DebugContext(ctx, "RAG file deleted",
		slog.String("name", identifier),
	)
	return nil
}

// Close closes the underlying RAG data service
func (c *Client) Close() error {
	return c.ragService.Close()
}

// toFileRecord converts a protobuf RagFile into a corpus.FileRecord
func toFileRecord(pb *aiplatformpb.RagFile) corpus.FileRecord {
	rec := corpus.FileRecord{
		Identifier:  pb.GetName(),
		DisplayName: pb.GetDisplayName(),
		SizeBytes:   pb.GetSizeBytes(),
	}
	if ts := pb.GetCreateTime(); ts != nil && ts.IsValid() {
		rec.CreateTime = ts.AsTime()
	}
	if ts := pb.GetUpdateTime(); ts != nil && ts.IsValid() {
		rec.UpdateTime = ts.AsTime()
	}
	return rec
}

// classify maps a remote error onto the corpus error kinds
func classify(op, identifier string, err error) error {
	if isNotFoundOrDenied(err) {
		return &corpus.NotFoundOrPermissionError{Identifier: identifier, Err: err}
	}
	return &corpus.TransportError{Op: op, Identifier: identifier, Err: err}
}

func isNotFoundOrDenied(err error) bool {
	var ae *apierror.APIError
	if errors.As(err, &ae) {
		if s := ae.GRPCStatus(); s != nil {
			return isNotFoundOrDeniedCode(s.Code())
		}
		switch ae.HTTPCode() {
		case http.StatusNotFound, http.StatusForbidden:
			return true
		}
		return false
	}
	return isNotFoundOrDeniedCode(status.Code(err))
}

func isNotFoundOrDeniedCode(code codes.Code) bool {
	return code == codes.NotFound || code == codes.PermissionDenied
}

// Ensure Client implements corpus.CorpusClient
var _ corpus.CorpusClient = (*Client)(nil)
