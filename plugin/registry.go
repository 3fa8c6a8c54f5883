package plugin

import (
	"fmt"
	"slices"
	"sync"

	"github.com/samber/lo"
)

// Registry 维护注解与生成器的绑定关系
// 一个注解只能绑定一个生成器，扫描到的目标按注解名分发
type Registry struct {
	mu sync.RWMutex

	annotations map[string]Generator // 注解名 -> 生成器
	generators  map[string]Generator // 生成器名 -> 生成器
}

func NewRegistry() *Registry {
	return &Registry{
		annotations: make(map[string]Generator),
		generators:  make(map[string]Generator),
	}
}

// Register 注册生成器并绑定其声明的所有注解
// 生成器名或任一注解已被占用时整体失败，不做部分绑定
func (r *Registry) Register(gen Generator) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := gen.Name()
	if _, ok := r.generators[name]; ok {
		return fmt.Errorf("生成器 %q 已注册", name)
	}

	for _, ann := range gen.Annotations() {
		if holder, ok := r.annotations[ann]; ok {
			return fmt.Errorf("注解 @%s 已被生成器 %q 绑定，无法被 %q 再次绑定",
				ann, holder.Name(), name)
		}
	}

	r.generators[name] = gen
	for _, ann := range gen.Annotations() {
		r.annotations[ann] = gen
	}
	return nil
}

// MustRegister 注册生成器，失败时 panic，用于 init 阶段
func (r *Registry) MustRegister(gen Generator) {
	if err := r.Register(gen); err != nil {
		panic(err)
	}
}

// GetByAnnotation 根据注解名查找生成器
func (r *Registry) GetByAnnotation(annotation string) (Generator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	gen, ok := r.annotations[annotation]
	return gen, ok
}

// GetByName 根据生成器名查找生成器
func (r *Registry) GetByName(name string) (Generator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	gen, ok := r.generators[name]
	return gen, ok
}

// Generators 返回所有已注册的生成器，顺序不保证
func (r *Registry) Generators() []Generator {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.Values(r.generators)
}

// Annotations 返回所有已绑定的注解名，顺序不保证
func (r *Registry) Annotations() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.Keys(r.annotations)
}

// IsRegistered 检查注解是否已被某个生成器绑定
func (r *Registry) IsRegistered(annotation string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.annotations[annotation]
	return ok
}

// DispatchTargets 按注解将扫描结果分发给各生成器
// 只分发生成器声明支持的目标类型，返回 生成器名 -> 目标列表
func (r *Registry) DispatchTargets(result *ScanResult) map[string][]*AnnotatedTarget {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dispatch := make(map[string][]*AnnotatedTarget)
	for _, target := range result.All() {
		for _, ann := range target.Annotations {
			gen, ok := r.annotations[ann.Name]
			if !ok {
				continue
			}
			if slices.Contains(gen.SupportedTargets(), target.Target.Kind) {
				dispatch[gen.Name()] = append(dispatch[gen.Name()], target)
			}
		}
	}
	return dispatch
}

// 全局注册表，main 包 init 时向其注册
var globalRegistry = NewRegistry()

// Global 返回全局注册表
func Global() *Registry {
	return globalRegistry
}

// Register 向全局注册表注册生成器
func Register(gen Generator) error {
	return globalRegistry.Register(gen)
}

// MustRegister 向全局注册表注册生成器，失败时 panic
func MustRegister(gen Generator) {
	globalRegistry.MustRegister(gen)
}
