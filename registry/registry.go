// Package registry 当前时间步已读入对象的内存目录。
//
// 对象按名字登记（check in），用完后注销（check out）。一个时间步结束时
// 注册表应当为空，否则上一个时间步的字段会污染下一个时间步。
package registry

import (
	"fmt"
	"sort"
)

// Object 可登记到注册表中的对象
type Object interface {
	Name() string
	Class() string
}

type Registry struct {
	objects map[string]Object
}

func New() *Registry {
	return &Registry{
		objects: make(map[string]Object),
	}
}

// CheckIn 登记对象，同名对象已存在时返回错误
func (r *Registry) CheckIn(obj Object) error {
	if _, ok := r.objects[obj.Name()]; ok {
		return fmt.Errorf("object %q already registered", obj.Name())
	}
	r.objects[obj.Name()] = obj
	return nil
}

// CheckOut 注销对象，只有登记的正是 obj 本身时才会移除
func (r *Registry) CheckOut(obj Object) bool {
	cur, ok := r.objects[obj.Name()]
	if !ok || cur != obj {
		return false
	}
	delete(r.objects, obj.Name())
	return true
}

func (r *Registry) Size() int {
	return len(r.objects)
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.objects))
	for name := range r.objects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup 按名字和类型查找对象，名字存在但类型不符时视为不存在
func Lookup[T Object](r *Registry, name string) (T, bool) {
	obj, ok := r.objects[name]
	if !ok {
		var zero T
		return zero, false
	}
	typed, ok := obj.(T)
	return typed, ok
}

func Found[T Object](r *Registry, name string) bool {
	_, ok := Lookup[T](r, name)
	return ok
}
