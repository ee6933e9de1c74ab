package generator

import (
	"bytes"
	"sync"
)

// Rendering buffers come in two size classes chosen by declaration count.
const (
	smallRenderSize = 8 << 10
	largeRenderSize = 64 << 10

	largeModelDecls = 20
	maxPooledBuffer = 1 << 20
)

var renderPools = [2]sync.Pool{
	{New: func() any { return bytes.NewBuffer(make([]byte, 0, smallRenderSize)) }},
	{New: func() any { return bytes.NewBuffer(make([]byte, 0, largeRenderSize)) }},
}

func sizeClass(decls int) int {
	if decls < largeModelDecls {
		return 0
	}
	return 1
}

// getTemplateBuffer returns an empty buffer sized for decls declarations.
func getTemplateBuffer(decls int) *bytes.Buffer {
	buf := renderPools[sizeClass(decls)].Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// putTemplateBuffer recycles buf unless it grew past maxPooledBuffer.
func putTemplateBuffer(buf *bytes.Buffer, decls int) {
	if buf == nil || buf.Cap() > maxPooledBuffer {
		return
	}
	renderPools[sizeClass(decls)].Put(buf)
}
