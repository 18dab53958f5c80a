package potential_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestPotential(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Potential Suite")
}
