package foundry

// HostDocument is the persisted-document shape the host application imports.
// System payloads are loosely typed because their layout varies per document
// type and the host owns the final write.
type HostDocument struct {
	Name           string                 `json:"name"`
	Type           string                 `json:"type"`
	Img            string                 `json:"img"`
	System         map[string]interface{} `json:"system"`
	PrototypeToken map[string]interface{} `json:"prototypeToken,omitempty"`
	Items          []HostDocument         `json:"items"`
	Effects        []interface{}          `json:"effects"`
	Folder         string                 `json:"folder,omitempty"`
	Flags          map[string]interface{} `json:"flags,omitempty"`
}
