package models

type WardrobeListOut struct {
	Items []WardrobeItem `json:"items"`
}

type SavedLooksOut struct {
	Looks []SavedLookOut `json:"looks"`
}
