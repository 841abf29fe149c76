// Package download mirrors LAADS archive orders into a local directory.
// Orders are directory listings served under
// https://ladsweb.modaps.eosdis.nasa.gov/archive/orders/{id}/ and require
// a Bearer token tied to an Earthdata account.
package download

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Client downloads LAADS order contents.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

// NewClient builds a client for the given archive root and token.
func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL: baseURL,
		Token:   token,
		HTTP:    &http.Client{Timeout: 10 * time.Minute},
	}
}

// listing entry of the JSON index served for an order directory.
type orderFile struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// DownloadOrder mirrors one order into destDir, skipping files that
// already exist with the expected size. Returns the number of files
// fetched.
func (c *Client) DownloadOrder(ctx context.Context, orderID int64, destDir string) (int, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return 0, fmt.Errorf("create download folder %s: %w", destDir, err)
	}

	files, err := c.listOrder(ctx, orderID)
	if err != nil {
		return 0, err
	}
	slog.Info("Downloading order", "order", orderID, "files", len(files))

	fetched := 0
	for _, f := range files {
		dest := filepath.Join(destDir, f.Name)
		if st, err := os.Stat(dest); err == nil && st.Size() == f.Size {
			slog.Debug("Skipping existing file", "file", f.Name)
			continue
		}
		if err := c.fetchFile(ctx, orderID, f.Name, dest); err != nil {
			return fetched, fmt.Errorf("download %s: %w", f.Name, err)
		}
		fetched++
	}
	return fetched, nil
}

func (c *Client) listOrder(ctx context.Context, orderID int64) ([]orderFile, error) {
	url := fmt.Sprintf("%s/%d.json", c.BaseURL, orderID)
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("list order %d: %w", orderID, err)
	}
	defer body.Close()

	var files []orderFile
	if err := json.NewDecoder(body).Decode(&files); err != nil {
		return nil, fmt.Errorf("decode order listing %d: %w", orderID, err)
	}
	return files, nil
}

func (c *Client) fetchFile(ctx context.Context, orderID int64, name, dest string) error {
	url := fmt.Sprintf("%s/%d/%s", c.BaseURL, orderID, name)
	body, err := c.get(ctx, url)
	if err != nil {
		return err
	}
	defer body.Close()

	// Download to a temp name so a partial fetch never looks complete.
	tmp := dest + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, body); err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dest)
}

func (c *Client) get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("GET %s: unexpected status %s", url, resp.Status)
	}
	return resp.Body, nil
}
