// Package project owns the pose and descriptor stores for the open project.
// Stores live on a Context passed to the solver and host layers; nothing is
// process-global.
package project

import (
	"github.com/coreman2200/arcaluminis-presets/internal/descriptor"
	"github.com/coreman2200/arcaluminis-presets/internal/pose"
	"github.com/rs/zerolog/log"
)

type Context struct {
	Poses       *pose.Store
	Descriptors *descriptor.Store

	open    bool
	version string
}

func New() *Context {
	return &Context{Poses: pose.NewStore(), Descriptors: descriptor.NewStore()}
}

// Open replaces both stores with the document contents. Loading a project
// never merges with what was there before.
func (c *Context) Open(doc Document) {
	c.Poses.Load(doc.Poses)
	c.Descriptors.Load(doc.Descriptors)
	c.version = doc.Version
	c.open = true
	log.Info().Int("poses", c.Poses.Len()).Int("descriptors", c.Descriptors.Len()).Msg("project opened")
}

// Close empties both stores.
func (c *Context) Close() {
	c.Poses.Clear()
	c.Descriptors.Clear()
	c.open = false
	c.version = ""
}

func (c *Context) IsOpen() bool { return c.open }

// Snapshot copies the current stores into a document suitable for WriteFile.
func (c *Context) Snapshot() Document {
	v := c.version
	if v == "" {
		v = DocumentVersion
	}
	return Document{
		Version:     v,
		Poses:       c.Poses.Export(),
		Descriptors: c.Descriptors.Export(),
	}
}
