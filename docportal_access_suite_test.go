package main_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestDocportalAccess(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "DocportalAccess Suite")
}
