package models

type Settings struct {
	Timezone       string `json:"timezone"`
	DefaultProject string `json:"default_project,omitempty"`
}
