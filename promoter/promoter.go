// Package promoter 把时间目录中仅含单元值的字段提升为带边界的完整字段。
//
// 每个时间步：读入请求的字段并登记到注册表，同时压入释放栈；
// 任何一个字段缺失则整步跳过，否则逐个写出 <name><suffix>；
// 无论哪种情况，释放栈都在同一个 defer 中逆序清空。
package promoter

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"internal2vol/deque"
	"internal2vol/field"
	"internal2vol/foam"
	"internal2vol/model"
	"internal2vol/registry"
)

const skipNotice = "At least one of the Eulerian Internal fields is missing, break current time loop!"

// Observer 接收处理进度，例如 websocket 推送
type Observer interface {
	Notify(msg model.Msg)
}

type nopObserver struct{}

func (nopObserver) Notify(model.Msg) {}

// Options 本次运行请求提升的字段
type Options struct {
	Fields       []string
	VectorFields []string
	Suffix       string
}

// RunContext 运行所需的协作者，由调用方显式传入
type RunContext struct {
	CaseDir  string
	Control  foam.Control
	Registry *registry.Registry
	Log      log.FieldLogger
	Observer Observer
}

type Promoter struct {
	RunContext
	opts Options
}

// StepResult 一个时间步的处理结果
type StepResult struct {
	Time    string
	Missing []string
	Written []string
	Skipped bool
}

// Summary 整个运行的统计
type Summary struct {
	Steps   int
	Skipped int
	Written int
}

func New(rc RunContext, opts Options) *Promoter {
	if rc.Registry == nil {
		rc.Registry = registry.New()
	}
	if rc.Log == nil {
		rc.Log = log.StandardLogger()
	}
	if rc.Observer == nil {
		rc.Observer = nopObserver{}
	}
	if opts.Suffix == "" {
		opts.Suffix = model.DefaultSuffix
	}
	return &Promoter{RunContext: rc, opts: opts}
}

// Run 依次处理每个时间步，时间步之间检查 ctx 是否已取消
func (p *Promoter) Run(ctx context.Context, times []foam.Instant) (Summary, error) {
	var sum Summary
	for _, inst := range times {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		res, err := p.ProcessTime(inst)
		if err != nil {
			return sum, err
		}
		sum.Steps++
		sum.Written += len(res.Written)
		if res.Skipped {
			sum.Skipped++
		}
	}
	p.Log.WithFields(log.Fields{
		"steps":   sum.Steps,
		"skipped": sum.Skipped,
		"written": sum.Written,
	}).Info("Finished!")
	p.Observer.Notify(model.Msg{Type: model.MsgFinished, Content: "Finished!"})
	return sum, nil
}

// ProcessTime 处理一个时间步。字段缺失不算错误，只在结果中标记 Skipped。
func (p *Promoter) ProcessTime(inst foam.Instant) (res StepResult, err error) {
	res.Time = inst.Name
	logger := p.Log.WithField("time", inst.Name)
	logger.Infof("Time = %s", inst.Name)
	p.Observer.Notify(model.Msg{Type: model.MsgTime, Time: inst.Name, Content: inst.Name})

	mesh, err := foam.ReadMesh(p.CaseDir, inst)
	if err != nil {
		return res, fmt.Errorf("time %s: read mesh: %w", inst.Name, err)
	}
	objects, err := foam.ReadObjectList(p.CaseDir, inst)
	if err != nil {
		return res, fmt.Errorf("time %s: %w", inst.Name, err)
	}
	for _, name := range objects.Skipped {
		logger.WithField("file", name).Debug("not a FoamFile, ignored")
	}

	pending := deque.NewArrDeque[registry.Object](len(p.opts.Fields) + len(p.opts.VectorFields))
	defer p.release(pending, logger)

	if err := load(p, logger, objects, field.ScalarType, p.opts.Fields, mesh.NCells, pending); err != nil {
		return res, fmt.Errorf("time %s: %w", inst.Name, err)
	}
	if err := load(p, logger, objects, field.VectorType, p.opts.VectorFields, mesh.NCells, pending); err != nil {
		return res, fmt.Errorf("time %s: %w", inst.Name, err)
	}

	res.Missing = append(missing[field.Scalar](p.Registry, p.opts.Fields),
		missing[field.Vector](p.Registry, p.opts.VectorFields)...)
	if len(res.Missing) > 0 {
		for _, name := range res.Missing {
			logger.WithField("field", name).Warnf("%s not found", name)
			p.Observer.Notify(model.Msg{Type: model.MsgMissing, Time: inst.Name, Content: name})
		}
		logger.Warn(skipNotice)
		p.Observer.Notify(model.Msg{Type: model.MsgSkipped, Time: inst.Name, Content: skipNotice})
		res.Skipped = true
		return res, nil
	}

	for _, name := range p.opts.Fields {
		out, err := promote(p, logger, inst, mesh, field.ScalarType, name)
		if err != nil {
			return res, fmt.Errorf("time %s: %w", inst.Name, err)
		}
		res.Written = append(res.Written, out)
	}
	for _, name := range p.opts.VectorFields {
		out, err := promote(p, logger, inst, mesh, field.VectorType, name)
		if err != nil {
			return res, fmt.Errorf("time %s: %w", inst.Name, err)
		}
		res.Written = append(res.Written, out)
	}
	return res, nil
}

// release 逆序弹出本时间步读入的对象并从注册表注销
func (p *Promoter) release(pending deque.Deque[registry.Object], logger log.FieldLogger) {
	pending.Traverse(func(i int, obj registry.Object) {
		logger.WithFields(log.Fields{"field": obj.Name(), "class": obj.Class(), "slot": i}).Debug("pending release")
	})
	for !pending.IsEmpty() {
		obj, _ := pending.RemoveLast()
		if !p.Registry.CheckOut(obj) {
			logger.WithField("field", obj.Name()).Warn("object was no longer registered")
		}
	}
}
