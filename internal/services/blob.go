package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// BlobService reads statement files from and writes exports to Azure Blob
// Storage.
type BlobService struct {
	client *azblob.Client
}

// NewBlobService connects to the account in BLOB_SERVICE_URL.
func NewBlobService() (*BlobService, error) {
	ep, err := resolveEndpoint("BLOB_SERVICE_URL")
	if err != nil {
		return nil, err
	}

	slog.Info("initializing blob service", "blob_url", ep.URL, "shared_key", ep.sharedKey())
	var client *azblob.Client
	if ep.sharedKey() {
		cred, err := azblob.NewSharedKeyCredential(ep.Account, ep.Key)
		if err != nil {
			return nil, fmt.Errorf("failed to create shared key credential: %w", err)
		}
		client, err = azblob.NewClientWithSharedKeyCredential(ep.URL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create blob client with shared key: %w", err)
		}
	} else {
		cred, err := ep.tokenCredential()
		if err != nil {
			return nil, err
		}
		client, err = azblob.NewClient(ep.URL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create blob client: %w", err)
		}
	}

	return &BlobService{client: client}, nil
}

// ListBlobs returns the names of the blobs in a container that start with
// prefix, in listing order.
func (s *BlobService) ListBlobs(ctx context.Context, containerName, prefix string) ([]string, error) {
	opts := &azblob.ListBlobsFlatOptions{}
	if prefix != "" {
		opts.Prefix = &prefix
	}

	var names []string
	pager := s.client.NewListBlobsFlatPager(containerName, opts)
	for pager.More() {
		resp, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list blobs in %s: %w", containerName, err)
		}
		for _, item := range resp.Segment.BlobItems {
			if item.Name != nil {
				names = append(names, *item.Name)
			}
		}
	}

	slog.Debug("listed blobs", "container", containerName, "prefix", prefix, "count", len(names))
	return names, nil
}

// DownloadBytes downloads a whole blob.
func (s *BlobService) DownloadBytes(ctx context.Context, containerName, blobName string) ([]byte, error) {
	slog.Info("downloading blob", "container", containerName, "blob_name", blobName)
	resp, err := s.client.DownloadStream(ctx, containerName, blobName, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to download blob %s/%s: %w", containerName, blobName, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob content: %w", err)
	}

	slog.Debug("downloaded blob", "container", containerName, "blob_name", blobName, "size_bytes", len(data))
	return data, nil
}

// UploadBytes writes data to a blob, creating the container if needed.
func (s *BlobService) UploadBytes(ctx context.Context, containerName, blobName string, data []byte) error {
	slog.Info("uploading blob", "container", containerName, "blob_name", blobName, "size_bytes", len(data))
	_, err := s.client.CreateContainer(ctx, containerName, nil)
	if err != nil && !isAzureErrorCode(err, "ContainerAlreadyExists") {
		slog.Warn("failed to create container", "container", containerName, "error", err)
	}

	if _, err := s.client.UploadBuffer(ctx, containerName, blobName, data, nil); err != nil {
		return fmt.Errorf("failed to upload blob %s/%s: %w", containerName, blobName, err)
	}
	return nil
}

func isAzureErrorCode(err error, code string) bool {
	var azErr *azcore.ResponseError
	return errors.As(err, &azErr) && azErr.ErrorCode == code
}
