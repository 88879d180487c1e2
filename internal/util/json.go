package util

import (
	"bytes"
	"encoding/json"

	jsonpatchv5 "github.com/evanphx/json-patch/v5"
	jd "github.com/josephburnett/jd/lib"
	"github.com/pkg/errors"
)

// JsonEqual compares the JSON encodings of two values. When they differ, the returned
// string is a jd diff from obj1 to obj2.
func JsonEqual(obj1, obj2 interface{}) (bool, string, error) {
	json1, err := json.Marshal(obj1)
	if err != nil {
		return false, "", errors.Wrap(err, "failed to marshal left value")
	}

	json2, err := json.Marshal(obj2)
	if err != nil {
		return false, "", errors.Wrap(err, "failed to marshal right value")
	}

	if bytes.Equal(json1, json2) {
		return true, "", nil
	}

	left, err := jd.ReadJsonString(string(json1))
	if err != nil {
		return false, "", errors.Wrap(err, "failed to read left value")
	}

	right, err := jd.ReadJsonString(string(json2))
	if err != nil {
		return false, "", errors.Wrap(err, "failed to read right value")
	}

	// key order differences are not reported by jd
	diff := left.Diff(right).Render()

	return diff == "", diff, nil
}

// MergePatch applies an RFC 7386 merge patch to a JSON document.
func MergePatch(doc, patch []byte) ([]byte, error) {
	if len(bytes.TrimSpace(patch)) == 0 {
		return doc, nil
	}

	if !json.Valid(patch) {
		return nil, errors.New("merge patch is not valid JSON")
	}

	merged, err := jsonpatchv5.MergePatch(doc, patch)
	if err != nil {
		return nil, errors.Wrap(err, "failed to apply merge patch")
	}

	return merged, nil
}
