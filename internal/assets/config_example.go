package assets

import _ "embed"

// ConfigExample holds the embedded config.example.yaml
//
//go:embed config.example.yaml
var ConfigExample []byte
