package operators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHostname(t *testing.T) {
	assert.Equal(t, "node1.lgns.net", Hostname("https://node1.lgns.net:443/path"))
	assert.Equal(t, "river.custom.host", Hostname("https://River.Custom.Host"))
	assert.Equal(t, "not a url", Hostname("not a url"))
}

func TestBaseName(t *testing.T) {
	tests := []struct {
		hostname string
		expect   string
	}{
		{hostname: "node1.lgns.net", expect: "Luganode"},
		{hostname: "river-1.towns-u4.com", expect: "Unit410"},
		{hostname: "river.unit410.com", expect: "Unit410"},
		{hostname: "towns.hnt-labs.io", expect: "HNT Labs"},
		{hostname: "localhost", expect: "Localhost"},
		{hostname: "foo.com", expect: "foo.com"},
	}

	for _, tt := range tests {
		t.Run(tt.hostname, func(t *testing.T) {
			assert.Equal(t, tt.expect, BaseName(tt.hostname))
		})
	}
}

func TestOperatorImage(t *testing.T) {
	assert.Equal(t, "/assets/operator-luganode.png", OperatorImage("Luganode"))
	assert.Equal(t, "/assets/operator-hnt.jpg", OperatorImage("HNT Labs"))
	assert.Equal(t, DefaultOperatorImage, OperatorImage("Localhost"))
	assert.Equal(t, DefaultOperatorImage, OperatorImage("foo.com"))
}

func TestAssignNames(t *testing.T) {
	names, order := AssignNames([]string{"foo.com", "bar.com", "foo.com"})
	assert.Equal(t, []string{"foo.com 1", "bar.com", "foo.com 2"}, names)
	assert.Equal(t, []string{"foo.com", "bar.com"}, order)

	names, order = AssignNames([]string{"Unit410", "Luganode", "Unit410", "Unit410"})
	assert.Equal(t, []string{"Unit410 1", "Luganode", "Unit410 2", "Unit410 3"}, names)
	assert.Equal(t, []string{"Unit410", "Luganode"}, order)

	names, order = AssignNames(nil)
	assert.Empty(t, names)
	assert.Empty(t, order)
}
