package main

import (
	"errors"

	"github.com/gocrud/container/di"
	"github.com/gocrud/container/logging"
)

// 定义接口
type Logger interface {
	Log(msg string)
}

type Database interface {
	Connect() error
}

// 实现
type ConsoleLogger struct {
	Prefix string
}

func NewConsoleLogger(prefix string) *ConsoleLogger {
	return &ConsoleLogger{Prefix: prefix}
}

func (c *ConsoleLogger) Log(msg string) {
	println(c.Prefix + ": " + msg)
}

type MySQLDatabase struct {
	Host string
	Port int
}

func NewMySQLDatabase(host string, port int) *MySQLDatabase {
	return &MySQLDatabase{Host: host, Port: port}
}

func (m *MySQLDatabase) Connect() error {
	println("Connecting to MySQL at", m.Host, ":", m.Port)
	return nil
}

// 服务
type UserService struct {
	Logger Logger
	DB     Database
}

func NewUserService(logger Logger, db Database) *UserService {
	return &UserService{Logger: logger, DB: db}
}

func main() {
	// 描述可构造的类型
	catalog := di.NewCatalog()
	di.MustProvide(catalog, NewConsoleLogger, "logger.prefix")
	di.MustProvide(catalog, NewMySQLDatabase, "mysql.host", "mysql.port")
	di.MustProvide(catalog, NewUserService)

	c := di.NewContainer(di.WithCatalog(catalog), di.WithLogger(logging.NewLogger()))

	// 参数与接口绑定
	c.SetParameter("logger.prefix", "APP")
	c.SetParameter("mysql.host", "localhost")
	c.SetParameter("mysql.port", 3306)
	di.Bind[Logger, *ConsoleLogger](c)
	di.Bind[Database, *MySQLDatabase](c)

	println("\n=== 方式1: 泛型 Resolve ===")
	svc := di.MustResolve[*UserService](c)
	svc.Logger.Log("UserService initialized")
	svc.DB.Connect()

	println("\n=== 方式2: Inject ===")
	_, err := c.Inject(func(logger Logger, svc *UserService) {
		logger.Log("same logger: " + boolString(logger == svc.Logger))
	})
	if err != nil {
		panic(err)
	}

	println("\n=== 方式3: 错误处理 ===")
	c.Reset()
	_, err = c.Get(di.TypeOf[*UserService]())
	if errors.Is(err, di.ErrUndefinedImplementation) {
		println("expected error:", err.Error())
	}
}

func boolString(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
