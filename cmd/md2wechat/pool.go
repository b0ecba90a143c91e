package main

import (
	md2wechat "github.com/alnah/go-md2wechat"
)

// poolAdapter exposes a *md2wechat.ConverterPool as a Pool.
type poolAdapter struct {
	pool *md2wechat.ConverterPool
}

// Compile-time check that poolAdapter implements Pool.
var _ Pool = (*poolAdapter)(nil)

func (a *poolAdapter) Acquire() (CLIConverter, error) {
	conv, err := a.pool.Acquire()
	if err != nil {
		return nil, err
	}
	return conv, nil
}

// Release panics when given a converter the pool did not hand out.
func (a *poolAdapter) Release(c CLIConverter) {
	conv, ok := c.(*md2wechat.Converter)
	if !ok {
		panic("poolAdapter.Release: unexpected type, want *md2wechat.Converter")
	}
	a.pool.Release(conv)
}

func (a *poolAdapter) Size() int {
	return a.pool.Size()
}
