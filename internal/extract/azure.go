package extract

import (
	"context"
	"encoding/xml"
	"net/url"
	"strings"

	"github.com/vk/medallion/internal/errs"
)

// enumerationResults is the List Blobs response body.
type enumerationResults struct {
	Blobs struct {
		Blob []struct {
			Name string `xml:"Name"`
		} `xml:"Blob"`
	} `xml:"Blobs"`
	NextMarker string `xml:"NextMarker"`
}

// listAzure lists every blob of the container a SAS URL points at, following
// continuation markers. Blob names keep their virtual directories.
func (e *Extractor) listAzure(ctx context.Context, sasURL, ext string) ([]remoteFile, error) {
	container, err := url.Parse(sasURL)
	if err != nil || container.Host == "" {
		return nil, errs.Newf(errs.ErrInvalidConfig, "list azure container", redact(sasURL), "invalid container URL")
	}

	var files []remoteFile
	marker := ""
	for {
		list := *container
		q := list.Query()
		q.Set("restype", "container")
		q.Set("comp", "list")
		if marker != "" {
			q.Set("marker", marker)
		}
		list.RawQuery = q.Encode()

		body, err := e.get(ctx, list.String(), nil)
		if err != nil {
			return nil, err
		}
		var res enumerationResults
		if err := xml.Unmarshal(body, &res); err != nil {
			return nil, errs.New(errs.ErrIO, "list azure container", redact(sasURL), err)
		}
		for _, b := range res.Blobs.Blob {
			if !hasExtension(b.Name, ext) {
				continue
			}
			blob := *container
			blob.Path = strings.TrimSuffix(container.Path, "/") + "/" + b.Name
			blob.RawPath = ""
			files = append(files, remoteFile{URL: blob.String(), Path: b.Name})
		}
		if res.NextMarker == "" {
			return files, nil
		}
		marker = res.NextMarker
	}
}
