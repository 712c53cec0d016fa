package fileurl

import (
	"os"
	"path/filepath"
	"strings"
)

// IsExist 检查文件或目录是否存在
func IsExist(dst string) bool {
	_, err := os.Stat(dst)
	if err != nil {
		return os.IsExist(err)
	}
	return true
}

// IsDir 检查路径是否为目录
func IsDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// CreatePath creates the parent directories of dst.
// CreatePath 创建 dst 的父级目录
func CreatePath(dst string, perm os.FileMode) error {
	dir := dst
	if !strings.HasSuffix(dst, string(os.PathSeparator)) {
		dir = filepath.Dir(dst)
	}
	if IsExist(dir) {
		return nil
	}
	return os.MkdirAll(dir, perm)
}

// GetExePath 获取可执行文件所在目录
func GetExePath() string {
	exe, err := os.Executable()
	if err != nil {
		wd, _ := os.Getwd()
		return wd
	}
	return filepath.Dir(exe)
}
