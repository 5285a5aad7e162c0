/*
Package assetkey provides the structured identifier of a materializable
dataset. A key is an ordered path of segments, written dot-separated in
configuration and logs, e.g. `silver.orders`.

The last segment is the human-facing artifact name: it becomes the file stem
of the persisted artifact and the relation name in the query surface.
*/
package assetkey
