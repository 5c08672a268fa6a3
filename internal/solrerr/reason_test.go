package solrerr

import "testing"

func TestReason(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status string
		want   string
	}{
		{
			name:   "html pre block",
			body:   "<html><body><h2>HTTP ERROR 400</h2><pre>ERROR: unknown field 'x'</pre></body></html>",
			status: "400 Bad Request",
			want:   "ERROR: unknown field 'x'",
		},
		{
			name: "entities decoded",
			body: "<pre>a &lt;b&gt; &amp;&amp; &quot;c&quot; &apos;d&apos;</pre>",
			want: `a <b> && "c" 'd'`,
		},
		{
			name: "multiline pre",
			body: "<pre>line one\nline two</pre>",
			want: "line one\nline two",
		},
		{
			name: "json error",
			body: `{"responseHeader":{"status":400},"error":{"msg":"undefined field foo","code":400}}`,
			want: "undefined field foo",
		},
		{
			name:   "raw body",
			body:   "something broke",
			status: "500 Internal Server Error",
			want:   "something broke",
		},
		{
			name:   "empty body",
			status: "503 Service Unavailable",
			want:   "503 Service Unavailable",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Reason([]byte(tc.body), tc.status); got != tc.want {
				t.Errorf("Reason() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDecodeEntities_SinglePass(t *testing.T) {
	if got := DecodeEntities("&amp;lt;"); got != "&lt;" {
		t.Errorf("DecodeEntities = %q, want &lt;", got)
	}
}
