package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot is used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Layers   []*layerBlock   `hcl:"layer,block"`
	Extracts []*extractBlock `hcl:"extract,block"`
	Assets   []*assetBlock   `hcl:"asset,block"`
}

// layerBlock is a `layer "<class>"` block.
type layerBlock struct {
	Name     string  `hcl:"name,label"`
	BasePath string  `hcl:"base_path"`
	Format   *string `hcl:"format,optional"`
}

// extractBlock is an `extract "<name>"` block.
type extractBlock struct {
	Name      string   `hcl:"name,label"`
	Kind      string   `hcl:"kind"`
	URL       string   `hcl:"url,optional"`
	Files     []string `hcl:"files,optional"`
	Extension string   `hcl:"extension,optional"`
	Dest      string   `hcl:"dest"`
}

// assetBlock is an `asset "<layer>" "<name>"` block.
type assetBlock struct {
	Layer        string     `hcl:"layer,label"`
	Name         string     `hcl:"name,label"`
	Compute      string     `hcl:"compute"`
	Inputs       []string   `hcl:"inputs,optional"`
	StorageClass string     `hcl:"storage_class,optional"`
	Description  string     `hcl:"description,optional"`
	Arguments    *argsBlock `hcl:"arguments,block"`
}

// argsBlock keeps the `arguments` body undecoded; modules bind it later.
type argsBlock struct {
	Body hcl.Body `hcl:",remain"`
}
