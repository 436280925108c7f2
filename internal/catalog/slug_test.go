package catalog

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Apple iPhone XS Max 512GB (gold)", "apple-iphone-xs-max-512gb-gold"},
		{"Смартфон Apple iPhone", "smartfon-apple-iphone"},
		{"  ---  ", "item"},
		{"", "item"},
		{"USB-C / Lightning", "usb-c-lightning"},
		{"Наушники", "naushniki"},
	}

	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
