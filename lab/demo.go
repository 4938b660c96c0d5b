// Package lab holds instrumented demo targets for the dynamic tracer.
// demo.go mirrors the canonical walkthrough script: a User whose age starts
// at 0 and is incremented by 2 twice, so a watch on demo.User.age records
// the values 0, 2, 4.
package lab

import (
	"fmt"

	"github.com/mrakbook/whyx/trace/shim"
)

func init() {
	shim.RegisterScript("lab/demo.go", Demo)
}

// Demo is the instrumented equivalent of:
//
//	class User:
//	    def __init__(self):
//	        self.age = 0
//
//	def increment(u):
//	    u.age += 2
//	    return u.age
//
//	def workflow():
//	    u = User()
//	    a1 = increment(u)
//	    a2 = increment(u)
//	    return a1 + a2
//
//	if __name__ == "__main__":
//	    print(workflow())
func Demo(m *shim.Module) {
	user := m.Class("User")

	newUser := func() *shim.Object {
		u := user.New()
		f := m.EnterMethod("__init__", u)
		u.Set(f, "age", 0)
		f.Exit(nil)
		return u
	}

	increment := func(u *shim.Object) int {
		f := m.Enter("increment")
		age, _ := u.Get("age").(int)
		age += 2
		u.Set(f, "age", age)
		f.Exit(age)
		return age
	}

	workflow := func() int {
		f := m.Enter("workflow")
		u := newUser()
		a1 := increment(u)
		a2 := increment(u)
		f.Exit(a1 + a2)
		return a1 + a2
	}

	if m.Name() == "__main__" {
		fmt.Println(workflow())
	}
}
