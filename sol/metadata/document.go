package metadata

import (
	"github.com/outcry-labs/go-outcry/types"
	"github.com/tidwall/gjson"
)

type document struct {
	Name         string
	Image        string
	Description  string
	ExternalURL  string
	AnimationURL string
	Attributes   []types.Attribute
}

// parseDocument reads the fields of an off-chain metadata document. Fields
// of the wrong JSON type are treated as missing.
func parseDocument(body []byte) (document, bool) {
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return document{}, false
	}

	doc := document{
		Name:         stringField(root, "name"),
		Image:        stringField(root, "image"),
		Description:  stringField(root, "description"),
		ExternalURL:  stringField(root, "external_url"),
		AnimationURL: stringField(root, "animation_url"),
	}

	root.Get("attributes").ForEach(func(_, v gjson.Result) bool {
		if !v.IsObject() {
			return true
		}
		doc.Attributes = append(doc.Attributes, types.Attribute{
			TraitType: v.Get("trait_type").String(),
			Value:     v.Get("value").String(),
		})
		return true
	})
	return doc, true
}

func stringField(root gjson.Result, path string) string {
	v := root.Get(path)
	if v.Type != gjson.String {
		return ""
	}
	return v.String()
}
