package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	id := NewID(ProjectIDPrefix)
	assert.True(t, strings.HasPrefix(id, "proj_"))
	assert.Len(t, id, len("proj_")+32)
	assert.NotEqual(t, id, NewID(ProjectIDPrefix))
}

func TestBeforeCreate_KeepsExistingID(t *testing.T) {
	p := &Project{BaseModel: BaseModel{ID: "proj_fixed"}}
	require.NoError(t, p.BeforeCreate(nil))
	assert.Equal(t, "proj_fixed", p.ID)

	w := &Workspace{}
	require.NoError(t, w.BeforeCreate(nil))
	assert.True(t, strings.HasPrefix(w.ID, "wrk_"))

	o := &Organization{}
	require.NoError(t, o.BeforeCreate(nil))
	assert.True(t, strings.HasPrefix(o.ID, "org_"))
}
