package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type greeter struct {
	Greeting string `yaml:"greeting" validate:"required"`
}

func buildGreeter(params map[string]interface{}) (*greeter, error) {
	g := &greeter{Greeting: "hello"}
	if err := Decode(params, g); err != nil {
		return nil, err
	}
	return g, nil
}

func TestRegistry_Build(t *testing.T) {
	r := NewRegistry[*greeter]("greeter")
	r.Register("hi", buildGreeter)

	assert.True(t, r.Has("hi"))
	assert.False(t, r.Has("bye"))
	assert.Equal(t, []string{"hi"}, r.Names())
	require.NoError(t, r.Check())

	g, err := r.Build(S("hi", map[string]interface{}{"greeting": "moin"}))
	require.NoError(t, err)
	assert.Equal(t, "moin", g.Greeting)

	_, err = r.Build(S("hi", map[string]interface{}{"greting": "moin"}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))
	assert.Contains(t, err.Error(), "greeter hi")
}

func TestRegistry_Unknown(t *testing.T) {
	r := NewRegistry[*greeter]("greeter")
	_, err := r.Lookup("not_existant")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownName))

	_, err = r.BuildAll([]Step{S("not_existant", nil)})
	assert.True(t, errors.Is(err, ErrUnknownName))
	assert.Contains(t, err.Error(), "step 0")
}

func TestRegistry_RegisterTwicePanics(t *testing.T) {
	r := NewRegistry[*greeter]("greeter")
	r.Register("hi", buildGreeter)
	assert.Panics(t, func() { r.Register("hi", buildGreeter) })
}
