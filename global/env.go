package global

import (
	"github.com/haierkeys/shell-history-sync-service/pkg/fileurl"
)

var (
	// 程序执行目录
	ROOT string
	Name string = "Shell History Sync Service"
)

func init() {

	filename := fileurl.GetExePath()
	ROOT = filename + "/"

}
