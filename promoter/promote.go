package promoter

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"internal2vol/deque"
	"internal2vol/field"
	"internal2vol/foam"
	"internal2vol/model"
	"internal2vol/registry"
)

// load 读入对象列表中类名匹配且被请求的字段，每个对象只读一次。
// 读入后立即登记并压入释放栈。
func load[T any](p *Promoter, logger log.FieldLogger, objects *foam.ObjectList, typ *field.Type[T],
	names []string, nCells int, pending deque.Deque[registry.Object]) error {
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}
	for _, name := range objects.Names(typ.InternalClass) {
		if !wanted[name] {
			continue
		}
		h, _ := objects.Lookup(name)
		f, err := foam.ReadInternal(h, typ, nCells)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if err := p.Registry.CheckIn(f); err != nil {
			return err
		}
		pending.AddLast(f)
		logger.WithFields(log.Fields{
			"field": name,
			"class": f.Class(),
			"cells": f.Size(),
		}).Debug("loaded")
	}
	return nil
}

// missing 返回注册表中找不到的名字，按请求顺序，重复的名字重复报告
func missing[T any](r *registry.Registry, names []string) []string {
	var out []string
	for _, name := range names {
		if !registry.Found[*field.Internal[T]](r, name) {
			out = append(out, name)
		}
	}
	return out
}

// promote 新建全零的完整字段，逐单元复制源字段的值后写出，返回新字段名
func promote[T any](p *Promoter, logger log.FieldLogger, inst foam.Instant, mesh *foam.Mesh,
	typ *field.Type[T], name string) (string, error) {
	src, ok := registry.Lookup[*field.Internal[T]](p.Registry, name)
	if !ok {
		return "", fmt.Errorf("%s is not registered", name)
	}
	if src.Size() != mesh.NCells {
		return "", fmt.Errorf("%s: %w: %d values, %d cells", name, foam.ErrCellCount, src.Size(), mesh.NCells)
	}

	out := field.NewVol(typ, name+p.opts.Suffix, src.Dimensions, mesh.NCells, typ.Zero, foam.ZeroBoundary(mesh, typ.Zero))
	for i := range src.Values {
		out.Internal[i] = src.Values[i]
	}

	path, err := foam.WriteVol(p.CaseDir, inst, out, p.Control)
	if err != nil {
		return "", fmt.Errorf("write %s: %w", out.Name(), err)
	}
	logger.WithFields(log.Fields{
		"field": out.Name(),
		"class": out.Class(),
		"path":  path,
	}).Infof("I am writing this field for you: %s", out.Name())
	p.Observer.Notify(model.Msg{Type: model.MsgPromoted, Time: inst.Name, Content: out.Name()})
	return out.Name(), nil
}
