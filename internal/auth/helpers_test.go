package auth_test

import (
	"encoding/json"
	"net/http"
)

func decode(resp *http.Response, out any) error {
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(out)
}
