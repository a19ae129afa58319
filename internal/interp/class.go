package interp

import "github.com/plu7o/plox/internal/token"

// Class is a class value: a name, its own methods, and an optional
// superclass. Calling a Class constructs an Instance.
type Class struct {
	Name       string
	Methods    map[string]*Function
	Superclass *Class
}

// NewClass builds a Class from its own method set and superclass (nil for
// none).
func NewClass(name string, methods map[string]*Function, superclass *Class) *Class {
	return &Class{Name: name, Methods: methods, Superclass: superclass}
}

// FindMethod looks up name in this class's own methods, then transitively up
// the superclass chain.
func (c *Class) FindMethod(name string) *Function {
	if m, ok := c.Methods[name]; ok {
		return m
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil
}

// Arity is the arity of init, or 0 if the class declares no initializer.
func (c *Class) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

// Call allocates a fresh Instance and, if the class chain defines init,
// binds and invokes it with arguments before returning the instance.
func (c *Class) Call(it *Interpreter, arguments []any) (any, *RuntimeError) {
	instance := NewInstance(c)
	if init := c.FindMethod("init"); init != nil {
		if _, err := init.Bind(instance).Call(it, arguments); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

func (c *Class) String() string {
	return "<PloxClass " + c.Name + ">"
}

// Instance is a runtime object: a class pointer plus its own field bindings.
// Fields are created lazily on first assignment.
type Instance struct {
	Class  *Class
	Fields map[string]any
}

// NewInstance allocates a zero-field instance of klass.
func NewInstance(klass *Class) *Instance {
	return &Instance{Class: klass, Fields: make(map[string]any)}
}

// Get resolves a property: an own field takes priority, otherwise a method
// looked up through the class chain and bound to this instance.
func (i *Instance) Get(name token.Token) (any, *RuntimeError) {
	if v, ok := i.Fields[name.Lexeme]; ok {
		return v, nil
	}
	if method := i.Class.FindMethod(name.Lexeme); method != nil {
		return method.Bind(i), nil
	}
	return nil, NewRuntimeError(name, "undefined property '"+name.Lexeme+"'.")
}

// Set assigns a field, creating it if this is the first write.
func (i *Instance) Set(name token.Token, value any) {
	i.Fields[name.Lexeme] = value
}

func (i *Instance) String() string {
	return "[" + i.Class.String() + " instance]"
}
