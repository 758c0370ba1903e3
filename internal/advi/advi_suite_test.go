package advi_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestADVISuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "ADVI Suite")
}
