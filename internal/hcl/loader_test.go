package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/medallion/internal/errs"
)

func writeHCL(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FullDeclaration(t *testing.T) {
	dir := t.TempDir()
	writeHCL(t, dir, "a_layers.hcl", `
layer "bronze" {
  base_path = "${env.DATA_DIR}/bronze"
}

extract "jaffle" {
  kind      = "github_contents"
  url       = "https://api.github.com/repos/example/data/contents/raw"
  extension = ".csv"
  dest      = "data/raw"
}
`)
	writeHCL(t, dir, "b_assets.hcl", `
asset "bronze" "raw_orders" {
  compute     = "load_csv"
  description = "Orders as extracted."
  arguments {
    path = "data/raw/raw_orders.csv"
  }
}

asset "silver" "orders" {
  compute = "conform"
  inputs  = ["bronze.raw_orders"]
}
`)

	model, conv, err := NewLoader(map[string]string{"DATA_DIR": "/srv"}).Load(context.Background(), dir)
	require.NoError(t, err)
	require.NotNil(t, conv)

	require.Len(t, model.Layers, 1)
	assert.Equal(t, "/srv/bronze", model.Layers[0].BasePath)
	assert.Equal(t, "parquet", model.Layers[0].Format)

	require.Len(t, model.Extracts, 1)
	assert.Equal(t, "github_contents", model.Extracts[0].Kind)
	assert.Equal(t, ".csv", model.Extracts[0].Extension)

	require.Len(t, model.Assets, 2)
	assert.Equal(t, "bronze.raw_orders", model.Assets[0].Key())
	assert.Equal(t, "bronze", model.Assets[0].StorageClass)
	assert.Equal(t, "Orders as extracted.", model.Assets[0].Description)
	assert.NotNil(t, model.Assets[0].Arguments)
	assert.Equal(t, []string{"bronze.raw_orders"}, model.Assets[1].Inputs)
	assert.Nil(t, model.Assets[1].Arguments)
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		wantErr error
		wantMsg string
	}{
		{
			name:    "syntax error",
			content: `asset "bronze" {`,
			wantErr: errs.ErrInvalidConfig,
		},
		{
			name:    "unknown top-level block",
			content: `step "x" "y" {}`,
			wantErr: errs.ErrInvalidConfig,
		},
		{
			name: "duplicate asset",
			content: `
asset "bronze" "a" { compute = "load_csv" }
asset "bronze" "a" { compute = "load_csv" }`,
			wantErr: errs.ErrInvalidConfig,
			wantMsg: "bronze.a",
		},
		{
			name:    "bad input key",
			content: `asset "silver" "a" { compute = "conform" inputs = ["no dots here!"] }`,
			wantErr: errs.ErrInvalidConfig,
		},
		{
			name:    "unsupported format",
			content: `layer "bronze" { base_path = "x" format = "csv" }`,
			wantErr: errs.ErrInvalidConfig,
			wantMsg: "unsupported format",
		},
		{
			name:    "unknown extract kind",
			content: `extract "e" { kind = "ftp" url = "ftp://x" dest = "d" }`,
			wantErr: errs.ErrInvalidConfig,
			wantMsg: "unknown kind",
		},
		{
			name:    "storage class without layer",
			content: `asset "platinum" "a" { compute = "load_csv" }`,
			wantErr: errs.ErrInvalidConfig,
			wantMsg: "platinum",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeHCL(t, t.TempDir(), "main.hcl", tc.content)
			_, _, err := NewLoader(nil).Load(context.Background(), path)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)
			if tc.wantMsg != "" {
				assert.Contains(t, err.Error(), tc.wantMsg)
			}
		})
	}
}

func TestLoad_MissingPath(t *testing.T) {
	_, _, err := NewLoader(nil).Load(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, errs.ErrNotFound)

	_, _, err = NewLoader(nil).Load(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, errs.ErrNotFound, "a directory without .hcl files is treated as missing")
}

func TestConverter_DecodeArguments(t *testing.T) {
	type args struct {
		Path  string   `hcl:"path"`
		Drop  []string `hcl:"drop,optional"`
		Upper string   `hcl:"upper,optional"`
	}

	path := writeHCL(t, t.TempDir(), "main.hcl", `
asset "bronze" "a" {
  compute = "load_csv"
  arguments {
    path  = "${env.ROOT}/a.csv"
    drop  = ["x", "y"]
    upper = upper("abc")
  }
}
asset "bronze" "b" {
  compute = "load_csv"
}
`)
	model, conv, err := NewLoader(map[string]string{"ROOT": "/data"}).Load(context.Background(), path)
	require.NoError(t, err)

	var got args
	require.NoError(t, conv.DecodeArguments(context.Background(), model.Assets[0].Arguments, &got))
	assert.Equal(t, "/data/a.csv", got.Path)
	assert.Equal(t, []string{"x", "y"}, got.Drop)
	assert.Equal(t, "ABC", got.Upper)

	t.Run("missing required argument", func(t *testing.T) {
		var missing args
		err := conv.DecodeArguments(context.Background(), model.Assets[1].Arguments, &missing)
		assert.Error(t, err)
	})

	t.Run("non-pointer target", func(t *testing.T) {
		err := conv.DecodeArguments(context.Background(), nil, args{})
		assert.ErrorContains(t, err, "non-nil pointer")
	})
}

func TestLoad_UnsetEnvironmentVariableWithTry(t *testing.T) {
	path := writeHCL(t, t.TempDir(), "extract.hcl", `
extract "tickets" {
  kind = "azure_container"
  url  = try(env.AZURE_SAS_URL, "")
  dest = "data/bronze/raw/azure"
}
`)

	model, _, err := NewLoader(nil).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "", model.Extracts[0].URL)

	model, _, err = NewLoader(map[string]string{"AZURE_SAS_URL": "https://acct.blob.core.windows.net/c?sig=x"}).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "https://acct.blob.core.windows.net/c?sig=x", model.Extracts[0].URL)
}
