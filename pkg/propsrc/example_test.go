package propsrc_test

import (
	"context"
	"fmt"

	"github.com/lwmacct/260825-go-pkg-consulsrc/pkg/propsrc"
)

func ExampleMaterializer_Collect() {
	reader := &fakeReader{entries: map[string][]propsrc.Entry{
		"config/application": {
			{Key: "config/application.yaml", Value: []byte("debug: false")},
			{Key: "config/application-test.yaml", Value: []byte("debug: true")},
		},
		"config/myapp": {
			{Key: "config/myapp.yaml", Value: []byte("db.host: db1.internal")},
		},
	}}

	m := propsrc.NewMaterializer(reader)
	sources, err := m.Collect(context.Background(), propsrc.Request{
		Enabled:      true,
		Path:         "config/",
		Format:       propsrc.FormatFile,
		Application:  "myapp",
		Environments: []string{"test"},
	})
	if err != nil {
		fmt.Println("error:", err)

		return
	}

	for _, src := range sources {
		fmt.Printf("%s priority=%d values=%d\n", src.Name, src.Priority, len(src.Values))
	}
	// Output:
	// consul-application priority=101 values=1
	// consul-application[test] priority=102 values=1
	// consul-myapp priority=151 values=1
}
