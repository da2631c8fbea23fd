package di_test

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gocrud/container/di"
)

// 测试 Inject - 函数
func TestInjection(t *testing.T) {
	c := newTestContainer(t)

	out, err := c.Inject(func(childClass1 *ChildClass1) string {
		return reflect.TypeOf(childClass1).String()
	})
	if err != nil {
		t.Fatal(err)
	}
	if out != "*di_test.ChildClass1" {
		t.Errorf("Expected '*di_test.ChildClass1', got %v", out)
	}
}

// 测试 Inject - 带 Invoke 方法的对象
func TestInjectionWithInvokableClass(t *testing.T) {
	c := newTestContainer(t)
	di.Bind[SomeInterface, *ChildClass1](c)

	out, err := c.Inject(&InvokableClassInjection{})
	if err != nil {
		t.Fatal(err)
	}
	if out != "*di_test.ChildClass1" {
		t.Errorf("Expected '*di_test.ChildClass1', got %v", out)
	}

	// 值类型同样可以
	out, err = c.Inject(InvokableClassInjection{})
	if err != nil || out != "*di_test.ChildClass1" {
		t.Errorf("Expected value receiver to work, got %v (%v)", out, err)
	}
}

type greeter struct{ prefix string }

func (g *greeter) Greet(name string, child *ChildClass1) string {
	return g.prefix + name + child.Name()
}

// 测试 Inject - 方法值
func TestInjectMethodValue(t *testing.T) {
	c := newTestContainer(t)
	c.SetParameter("name", "bob-")

	g := &greeter{prefix: "hi "}
	out, err := di.InjectAs[string](c, g.Greet, "name")
	if err != nil {
		t.Fatal(err)
	}
	if out != "hi bob-child1" {
		t.Errorf("Expected 'hi bob-child1', got '%s'", out)
	}
}

// 测试 Inject - 重复调用命中单例缓存
func TestInjectReturnsCachedSingleton(t *testing.T) {
	c := newTestContainer(t)

	identity := func(childClass1 *ChildClass1) *ChildClass1 { return childClass1 }

	first, err := di.InjectAs[*ChildClass1](c, identity)
	if err != nil {
		t.Fatal(err)
	}
	second, err := di.InjectAs[*ChildClass1](c, identity)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("Expected the same instance across injections")
	}
	if first != di.MustResolve[*ChildClass1](c) {
		t.Error("Expected injection to share the container cache")
	}
}

// 测试 Inject - 返回值约定
func TestInjectResults(t *testing.T) {
	c := newTestContainer(t)

	out, err := c.Inject(func() {})
	if out != nil || err != nil {
		t.Errorf("Expected (nil, nil) for no results, got (%v, %v)", out, err)
	}

	boom := errors.New("boom")
	out, err = c.Inject(func() (int, error) { return 7, boom })
	if err != boom {
		t.Errorf("Expected error returned unchanged, got %v", err)
	}
	if out != 7 {
		t.Errorf("Expected result 7 alongside error, got %v", out)
	}

	_, err = c.Inject(func() error { return boom })
	if err != boom {
		t.Errorf("Expected lone error returned unchanged, got %v", err)
	}
}

// 测试 Inject - 参数错误
func TestInjectErrors(t *testing.T) {
	c := newTestContainer(t)

	_, err := c.Inject(func(missing string) {}, "missing")
	var paramErr *di.UndefinedParameterError
	if !errors.As(err, &paramErr) || paramErr.Param != "missing" {
		t.Errorf("Expected UndefinedParameterError for 'missing', got %v", err)
	}

	_, err = c.Inject(func(anything any) {}, "anything")
	var typeErr *di.MissingTypeError
	if !errors.As(err, &typeErr) || typeErr.Param != "anything" {
		t.Errorf("Expected MissingTypeError for 'anything', got %v", err)
	}

	// 未命名的标量参数使用位置名称
	_, err = c.Inject(func(count int) {})
	if !errors.As(err, &paramErr) || paramErr.Param != "arg0" {
		t.Errorf("Expected positional name arg0, got %v", err)
	}

	called := false
	_, err = c.Inject(func(s SomeInterface) { called = true })
	if !errors.Is(err, di.ErrUndefinedImplementation) {
		t.Errorf("Expected ErrUndefinedImplementation, got %v", err)
	}
	if called {
		t.Error("Callable must not run when resolution fails")
	}
}

// 测试 Inject - 不可调用的对象
func TestInjectNotCallable(t *testing.T) {
	c := newTestContainer(t)

	for _, target := range []any{nil, 42, &ChildClass1{}, (*di.Callable)(nil), (func())(nil)} {
		if _, err := c.Inject(target); !errors.Is(err, di.ErrNotCallable) {
			t.Errorf("Expected ErrNotCallable for %T, got %v", target, err)
		}
	}

	if _, err := c.Inject(func(a, b string) {}, "a", "b", "c"); err == nil {
		t.Error("Expected error for too many names")
	}
	if _, err := c.Inject(func(names ...string) {}); err == nil {
		t.Error("Expected error for variadic function")
	}

	// 多个非 error 返回值不会被静默丢弃
	called := false
	for _, target := range []any{
		func() (int, string) { called = true; return 1, "x" },
		func() (int, string, error) { called = true; return 1, "x", nil },
	} {
		if _, err := c.Inject(target); !errors.Is(err, di.ErrNotCallable) {
			t.Errorf("Expected ErrNotCallable for %T, got %v", target, err)
		}
	}
	if called {
		t.Error("Callable with unsupported results must not run")
	}
}

type PanickyService struct{ Label string }

// 测试 Inject - 构造函数 panic 后容器仍然可用
func TestInjectReleasesLockOnPanic(t *testing.T) {
	cat := di.NewCatalog()
	di.MustProvide(cat, func() *PanickyService { panic("boom") })
	di.MustProvide(cat, func() *ChildClass1 { return &ChildClass1{Label: "ok"} })
	c := di.NewContainer(di.WithCatalog(cat))

	func() {
		defer func() {
			if recover() == nil {
				t.Error("Expected constructor panic to propagate")
			}
		}()
		_, _ = c.Inject(func(p *PanickyService) {})
	}()

	done := make(chan bool, 1)
	go func() {
		c.SetParameter("after", "panic")
		done <- c.Has(di.TypeOf[*ChildClass1]())
	}()

	select {
	case has := <-done:
		if !has {
			t.Error("Expected *ChildClass1 to be resolvable")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("container is still locked after a constructor panic in Inject")
	}

	if _, err := c.Inject(func(child *ChildClass1) {}); err != nil {
		t.Errorf("Expected Inject to work after the panic, got %v", err)
	}
}

// 测试 Inject - 手工描述参数的 Callable
func TestInjectCallable(t *testing.T) {
	c := newTestContainer(t)
	c.SetParameter("sampleParameter", "foo")
	c.SetParameter("repeat", 2)

	callable := &di.Callable{
		Name: "joiner",
		Params: []di.Param{
			di.ScalarOf[int]("repeat"),
			di.Dep[*ChildClass2]("child"),
		},
		Call: func(args di.Args) (any, error) {
			repeat, err := di.Arg[int](args, "repeat")
			if err != nil {
				return nil, err
			}
			child, err := di.Arg[*ChildClass2](args, "child")
			if err != nil {
				return nil, err
			}
			return strings.Repeat(child.SampleParameter, repeat), nil
		},
	}

	out, err := c.Inject(callable)
	if err != nil {
		t.Fatal(err)
	}
	if out != "foofoo" {
		t.Errorf("Expected 'foofoo', got %v", out)
	}

	// 类型不匹配的标量参数
	c.SetParameter("repeat", "two")
	_, err = c.Inject(callable)
	var argErr *di.ArgumentError
	if !errors.As(err, &argErr) || argErr.Owner != "joiner" || argErr.Param != "repeat" {
		t.Errorf("Expected ArgumentError for joiner.repeat, got %v", err)
	}

	bad := &di.Callable{Params: []di.Param{di.Scalar("x"), di.Scalar("x")}, Call: callable.Call}
	if _, err := c.Inject(bad); err == nil {
		t.Error("Expected error for duplicate parameter names")
	}
}

// 测试 Inject - 目标函数可以再次使用容器
func TestInjectReentrant(t *testing.T) {
	c := newTestContainer(t)

	out, err := c.Inject(func(childClass1 *ChildClass1) (bool, error) {
		again, err := di.Resolve[*ChildClass1](c)
		if err != nil {
			return false, err
		}
		return again == childClass1, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if out != true {
		t.Error("Expected nested resolution to return the cached instance")
	}
}

// 测试 Inject - 并发
func TestInjectConcurrent(t *testing.T) {
	c := newTestContainer(t)
	c.SetParameter("sampleParameter", "foo")

	var wg sync.WaitGroup
	results := make([]*MainClass, 50)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := di.InjectAs[*MainClass](c, func(m *MainClass) *MainClass { return m })
			if err != nil {
				t.Error(err)
				return
			}
			results[i] = out
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		if r != results[0] {
			t.Fatal("Expected all goroutines to share one MainClass")
		}
	}
}
