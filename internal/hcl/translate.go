package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/medallion/internal/assetkey"
	"github.com/vk/medallion/internal/config"
	"github.com/vk/medallion/internal/errs"
)

// Extraction kinds understood by the extract package.
var extractKinds = map[string]bool{
	"github_contents": true,
	"azure_container": true,
	"http":            true,
}

// merge translates one decoded file into the model, rejecting duplicates
// across all files loaded so far.
func (l *Loader) merge(model *config.Model, root *fileRoot, file string) error {
	for _, b := range root.Layers {
		if _, dup := findLayer(model, b.Name); dup {
			return errs.Newf(errs.ErrInvalidConfig, "load layer", b.Name, "declared more than once (%s)", file)
		}
		layer, err := translateLayer(b)
		if err != nil {
			return err
		}
		model.Layers = append(model.Layers, layer)
	}

	for _, b := range root.Extracts {
		if _, dup := model.Extract(b.Name); dup {
			return errs.Newf(errs.ErrInvalidConfig, "load extract", b.Name, "declared more than once (%s)", file)
		}
		ext, err := translateExtract(b)
		if err != nil {
			return err
		}
		model.Extracts = append(model.Extracts, ext)
	}

	for _, b := range root.Assets {
		asset, err := translateAsset(b, file)
		if err != nil {
			return err
		}
		for _, existing := range model.Assets {
			if existing.Key() == asset.Key() {
				return errs.Newf(errs.ErrInvalidConfig, "load asset", asset.Key(), "declared in both %s and %s", existing.Source, file)
			}
		}
		model.Assets = append(model.Assets, asset)
	}
	return nil
}

func findLayer(model *config.Model, name string) (*config.Layer, bool) {
	for _, l := range model.Layers {
		if l.Name == name {
			return l, true
		}
	}
	return nil, false
}

func translateLayer(b *layerBlock) (*config.Layer, error) {
	if err := assetkey.ValidateSegment(b.Name); err != nil {
		return nil, errs.New(errs.ErrInvalidConfig, "load layer", b.Name, err)
	}
	if b.BasePath == "" {
		return nil, errs.Newf(errs.ErrInvalidConfig, "load layer", b.Name, "base_path must not be empty")
	}
	format := config.FormatParquet
	if b.Format != nil {
		format = *b.Format
	}
	if format != config.FormatParquet {
		return nil, errs.Newf(errs.ErrInvalidConfig, "load layer", b.Name, "unsupported format %q", format)
	}
	return &config.Layer{Name: b.Name, BasePath: b.BasePath, Format: format}, nil
}

func translateExtract(b *extractBlock) (*config.Extract, error) {
	if !extractKinds[b.Kind] {
		return nil, errs.Newf(errs.ErrInvalidConfig, "load extract", b.Name, "unknown kind %q", b.Kind)
	}
	if b.Kind == "http" && len(b.Files) == 0 {
		return nil, errs.Newf(errs.ErrInvalidConfig, "load extract", b.Name, "kind \"http\" requires files")
	}
	return &config.Extract{
		Name:      b.Name,
		Kind:      b.Kind,
		URL:       b.URL,
		Files:     b.Files,
		Extension: b.Extension,
		Dest:      b.Dest,
	}, nil
}

func translateAsset(b *assetBlock, file string) (*config.Asset, error) {
	key := b.Layer + "." + b.Name
	if _, err := assetkey.Parse(key); err != nil {
		return nil, errs.New(errs.ErrInvalidConfig, "load asset", key, fmt.Errorf("%s: %w", file, err))
	}
	if b.Compute == "" {
		return nil, errs.Newf(errs.ErrInvalidConfig, "load asset", key, "%s: compute must not be empty", file)
	}

	inputs := make([]string, 0, len(b.Inputs))
	for _, raw := range b.Inputs {
		in, err := assetkey.Parse(raw)
		if err != nil {
			return nil, errs.New(errs.ErrInvalidConfig, "load asset", key, fmt.Errorf("input %q: %w", raw, err))
		}
		inputs = append(inputs, in.String())
	}

	storageClass := b.StorageClass
	if storageClass == "" {
		storageClass = b.Layer
	}

	var args hcl.Body
	if b.Arguments != nil {
		args = b.Arguments.Body
	}

	return &config.Asset{
		Layer:        b.Layer,
		Name:         b.Name,
		StorageClass: storageClass,
		Compute:      b.Compute,
		Inputs:       inputs,
		Description:  b.Description,
		Arguments:    args,
		Source:       file,
	}, nil
}

// validateModel checks cross-file references that cannot be resolved while
// files are still being merged.
func validateModel(model *config.Model) error {
	for _, a := range model.Assets {
		if _, ok := model.Layer(a.StorageClass); !ok {
			return errs.Newf(errs.ErrInvalidConfig, "load asset", a.Key(), "storage class %q has no layer declaration", a.StorageClass)
		}
	}
	return nil
}
