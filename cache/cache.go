// Package cache memoizes GLSL compilations.
//
// A Compiler wraps another glslc.Compiler. Successful results are kept in
// memory and, when a directory is configured, persisted as msgpack records
// so later processes skip the external compiler entirely. Failures are
// never cached: a failing source is recompiled every time so that its
// diagnostic is always fresh.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/gogpu/shaderset/glslc"
	"github.com/gogpu/shaderset/internal/ctxlog"
	"github.com/gogpu/shaderset/spirv"
)

// recordVersion is bumped whenever the key derivation or the record
// layout changes; records of other versions are ignored.
const recordVersion = 1

// record is the on-disk form of a cached compilation.
type record struct {
	Version  int    `msgpack:"v"`
	Key      string `msgpack:"key"`
	FileName string `msgpack:"file"`
	Bytecode []byte `msgpack:"spv"`
}

// Stats counts cache lookups.
type Stats struct {
	Hits   int64
	Misses int64
}

// Compiler is a caching glslc.Compiler. It is safe for concurrent use.
// Two concurrent misses on the same key both compile; the second write
// wins, which is harmless since compilation is deterministic.
type Compiler struct {
	next glslc.Compiler
	dir  string

	entries sync.Map // Key: string, Value: []byte

	hits   atomic.Int64
	misses atomic.Int64
}

// New returns a cache in front of next. An empty dir keeps the cache in
// memory only.
func New(next glslc.Compiler, dir string) *Compiler {
	return &Compiler{next: next, dir: dir}
}

// Key derives the cache key of req: the hex SHA-256 of the shader kind,
// debug flag, file name, source and macros in order. Every variable
// field is length-prefixed so distinct requests never collide by
// concatenation.
func Key(req *glslc.Request) string {
	h := sha256.New()
	var buf []byte
	field := func(b []byte) {
		buf = binary.AppendUvarint(buf[:0], uint64(len(b)))
		h.Write(buf)
		h.Write(b)
	}
	buf = binary.AppendUvarint(buf, recordVersion)
	buf = binary.AppendUvarint(buf, uint64(req.Kind))
	if req.Debug {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	h.Write(buf)
	field(req.FileName)
	field(req.Source)
	buf = binary.AppendUvarint(buf[:0], uint64(len(req.Macros)))
	h.Write(buf)
	for _, m := range req.Macros {
		field(m.Name)
		field(m.Value)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Compile returns the cached bytecode for req or compiles it with the
// wrapped compiler.
func (c *Compiler) Compile(ctx context.Context, req *glslc.Request) (*glslc.Result, error) {
	logger := ctxlog.FromContext(ctx)
	key := Key(req)

	if bytecode, ok := c.lookup(ctx, key); ok {
		c.hits.Add(1)
		logger.Debug("Shader cache hit.", "file", string(req.FileName), "key", key[:12])
		return &glslc.Result{Succeeded: true, Bytecode: clone(bytecode)}, nil
	}
	c.misses.Add(1)

	res, err := c.next.Compile(ctx, req)
	if err != nil || res == nil || !res.Succeeded {
		return res, err
	}
	c.entries.Store(key, clone(res.Bytecode))
	if c.dir != "" {
		if err := c.persist(key, string(req.FileName), res.Bytecode); err != nil {
			logger.Warn("Failed to persist shader cache entry.", "key", key[:12], "error", err)
		}
	}
	return res, nil
}

// Stats returns the lookup counters.
func (c *Compiler) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}

func (c *Compiler) lookup(ctx context.Context, key string) ([]byte, bool) {
	if v, ok := c.entries.Load(key); ok {
		return v.([]byte), true
	}
	if c.dir == "" {
		return nil, false
	}
	bytecode, err := c.load(key)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			ctxlog.FromContext(ctx).Warn("Ignoring shader cache entry.", "key", key[:12], "error", err)
		}
		return nil, false
	}
	c.entries.Store(key, bytecode)
	return bytecode, true
}

func (c *Compiler) path(key string) string {
	return filepath.Join(c.dir, key+".spv.msgpack")
}

func (c *Compiler) load(key string) ([]byte, error) {
	data, err := os.ReadFile(c.path(key))
	if err != nil {
		return nil, err
	}
	var rec record
	if err := msgpack.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", c.path(key), err)
	}
	switch {
	case rec.Version != recordVersion:
		return nil, fmt.Errorf("record version %d, want %d", rec.Version, recordVersion)
	case rec.Key != key:
		return nil, fmt.Errorf("record key %s does not match", rec.Key)
	case len(rec.Bytecode)%4 != 0 || !spirv.HasHeader(rec.Bytecode):
		return nil, errors.New("record does not hold SPIR-V")
	}
	return rec.Bytecode, nil
}

// persist writes the record to a temporary file and renames it into
// place so readers never observe a partial record.
func (c *Compiler) persist(key, fileName string, bytecode []byte) error {
	data, err := msgpack.Marshal(&record{
		Version:  recordVersion,
		Key:      key,
		FileName: fileName,
		Bytecode: bytecode,
	})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(c.dir, ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), c.path(key))
}

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}
