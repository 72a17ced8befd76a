package cache

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyDeterministic(t *testing.T) {
	params := url.Values{}
	params.Set("max_results", "100")
	params.Set("pagination_token", "abc")

	assert.Equal(t, Key("/users/1/tweets", params), Key("/users/1/tweets", params))
}

func TestKeyIndependentOfInsertionOrder(t *testing.T) {
	a := url.Values{}
	a.Set("max_results", "100")
	a.Set("pagination_token", "abc")

	b := url.Values{}
	b.Set("pagination_token", "abc")
	b.Set("max_results", "100")

	assert.Equal(t, Key("/users/1/tweets", a), Key("/users/1/tweets", b))
}

func TestKeyDistinguishesCursors(t *testing.T) {
	a := url.Values{}
	a.Set("pagination_token", "page2")

	b := url.Values{}
	b.Set("pagination_token", "page3")

	assert.NotEqual(t, Key("/users/1/tweets", a), Key("/users/1/tweets", b))
}

func TestKeyDistinguishesEndpoints(t *testing.T) {
	assert.NotEqual(t, Key("/users/1/tweets", nil), Key("/users/2/tweets", nil))
}

func TestKeyWithoutParams(t *testing.T) {
	assert.Equal(t, "/users/by/username/jack", Key("/users/by/username/jack", nil))
	assert.Equal(t, "/users/by/username/jack", Key("/users/by/username/jack", url.Values{}))
}
