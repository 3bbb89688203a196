package drive

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/time/rate"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const (
	MimeTypeGoogleSheet = "application/vnd.google-apps.spreadsheet"
	MimeTypeCSV         = "text/csv"

	// MaxDownloadSize caps a single CSV download (5MB).
	MaxDownloadSize = 5 * 1024 * 1024
)

// File is the subset of Drive file metadata the cache sync needs.
type File struct {
	ID           string
	Name         string
	MimeType     string
	ModifiedTime string
}

// Client wraps the Drive v3 API for listing and downloading CSV sources.
// Calls are rate limited to stay under Google's 10/sec/user quota.
type Client struct {
	svc     *drive.Service
	limiter *rate.Limiter
}

func NewClient(ctx context.Context, credentialsFile string) (*Client, error) {
	svc, err := drive.NewService(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &Client{
		svc:     svc,
		limiter: rate.NewLimiter(rate.Limit(8.0), 10),
	}, nil
}

// ListCSVFiles returns CSV files and Google Sheets inside the given folder.
func (c *Client) ListCSVFiles(ctx context.Context, folderID string) ([]File, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		"'%s' in parents and trashed = false and (mimeType = '%s' or mimeType = '%s')",
		folderID, MimeTypeCSV, MimeTypeGoogleSheet,
	)

	var files []File
	pageToken := ""
	for {
		call := c.svc.Files.List().
			Q(query).
			Fields("nextPageToken, files(id, name, mimeType, modifiedTime)").
			PageSize(100).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		res, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list files in folder %s: %w", folderID, err)
		}

		for _, f := range res.Files {
			files = append(files, File{
				ID:           f.Id,
				Name:         f.Name,
				MimeType:     f.MimeType,
				ModifiedTime: f.ModifiedTime,
			})
		}

		if res.NextPageToken == "" {
			break
		}
		pageToken = res.NextPageToken
	}

	return files, nil
}

// Download fetches a file's CSV content. Google Sheets are exported to CSV,
// plain CSV files are downloaded as-is.
func (c *Client) Download(ctx context.Context, file File) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var body io.ReadCloser
	if file.MimeType == MimeTypeGoogleSheet {
		resp, err := c.svc.Files.Export(file.ID, MimeTypeCSV).Context(ctx).Download()
		if err != nil {
			return nil, fmt.Errorf("failed to export sheet %s: %w", file.ID, err)
		}
		body = resp.Body
	} else {
		resp, err := c.svc.Files.Get(file.ID).Context(ctx).Download()
		if err != nil {
			return nil, fmt.Errorf("failed to download file %s: %w", file.ID, err)
		}
		body = resp.Body
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, MaxDownloadSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read content of %s: %w", file.ID, err)
	}

	return data, nil
}
