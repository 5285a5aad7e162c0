// Package extract downloads raw source files into the directory the bronze
// source assets read from. Three kinds of source are supported:
//
//   - github_contents: a GitHub contents API listing, walked recursively
//   - azure_container: an Azure blob container addressed by a SAS URL
//   - http: a base URL plus an explicit list of file names
//
// Files are written through an afs.Service so the destination can be any
// location afs understands; the pipeline binary uses local paths.
package extract
