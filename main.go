package main

import (
	"log"

	"github.com/xyhcode/blog-api/cmd/server"
)

func main() {
	app, cleanup, err := server.NewApp()
	if cleanup != nil {
		defer cleanup()
	}
	if err != nil {
		log.Fatalf("应用初始化失败: %v", err)
	}
	defer app.Stop()

	if err := app.Run(); err != nil {
		log.Fatalf("应用运行失败: %v", err)
	}
}
