package render_test

import (
	"fmt"

	"github.com/matzehuels/yeargrid/pkg/render"
)

func ExampleWrapTitle() {
	fmt.Println(render.WrapTitle("Quarterly planning offsite", 10, 2))
	// Output: [Quarterly planning…]
}
