// @title Playful Math 后端 API
// @version 1.0
// @description 三到五年级数学练习平台的后端服务。

// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey CookieAuth
// @in header
// @name pm_session

package main

import (
	"os"

	"playful_math_backend/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
