package extract

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/vk/medallion/internal/errs"
)

// contentItem is one entry of a GitHub contents API listing.
type contentItem struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Type        string `json:"type"`
	URL         string `json:"url"`
	DownloadURL string `json:"download_url"`
}

var githubHeader = http.Header{"Accept": []string{"application/vnd.github+json"}}

// listGitHub walks a contents listing, descending into directories, and
// returns the files with the given extension. Files land flat in the
// destination directory under their own name.
func (e *Extractor) listGitHub(ctx context.Context, listURL, ext string) ([]remoteFile, error) {
	body, err := e.get(ctx, listURL, githubHeader)
	if err != nil {
		return nil, err
	}
	var items []contentItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, errs.New(errs.ErrIO, "list github contents", listURL, err)
	}

	var files []remoteFile
	for _, item := range items {
		switch item.Type {
		case "dir":
			nested, err := e.listGitHub(ctx, item.URL, ext)
			if err != nil {
				return nil, err
			}
			files = append(files, nested...)
		case "file":
			if item.DownloadURL == "" || !hasExtension(item.Name, ext) {
				continue
			}
			files = append(files, remoteFile{URL: item.DownloadURL, Path: item.Name})
		}
	}
	return files, nil
}
