// internal/websocket/router.go
package websocket

import (
	"fmt"
	"reflect"
)

// Router maps RPC method names onto exported App methods by reflection,
// so the headless server exposes exactly the surface the desktop
// bindings do.
type Router struct {
	app     interface{}
	methods map[string]reflect.Method
}

// NewRouter creates a new router
func NewRouter(app interface{}) *Router {
	r := &Router{
		app:     app,
		methods: make(map[string]reflect.Method),
	}

	appType := reflect.TypeOf(app)
	for i := 0; i < appType.NumMethod(); i++ {
		method := appType.Method(i)
		if method.IsExported() {
			r.methods[method.Name] = method
		}
	}

	return r
}

// Call invokes the named method with JSON-decoded parameters.
func (r *Router) Call(methodName string, params []interface{}) (interface{}, error) {
	method, ok := r.methods[methodName]
	if !ok {
		return nil, fmt.Errorf("method not found: %s", methodName)
	}

	methodType := method.Type
	numIn := methodType.NumIn() - 1 // minus receiver

	if len(params) != numIn {
		return nil, fmt.Errorf("method %s expects %d params, got %d", methodName, numIn, len(params))
	}

	args := make([]reflect.Value, numIn+1)
	args[0] = reflect.ValueOf(r.app)

	for i, param := range params {
		expectedType := methodType.In(i + 1)
		paramValue, err := convertParam(param, expectedType)
		if err != nil {
			return nil, fmt.Errorf("param %d: %w", i, err)
		}
		args[i+1] = paramValue
	}

	results := method.Func.Call(args)

	return processResults(results)
}

// convertParam coerces a JSON-decoded value to the parameter type.
// JSON numbers arrive as float64.
func convertParam(param interface{}, targetType reflect.Type) (reflect.Value, error) {
	if param == nil {
		return reflect.Zero(targetType), nil
	}

	paramValue := reflect.ValueOf(param)

	if paramValue.Type().AssignableTo(targetType) {
		return paramValue, nil
	}

	if paramValue.Kind() == reflect.Float64 {
		switch targetType.Kind() {
		case reflect.Int:
			return reflect.ValueOf(int(param.(float64))), nil
		case reflect.Int64:
			return reflect.ValueOf(int64(param.(float64))), nil
		case reflect.Int32:
			return reflect.ValueOf(int32(param.(float64))), nil
		case reflect.Uint:
			return reflect.ValueOf(uint(param.(float64))), nil
		case reflect.Uint32:
			return reflect.ValueOf(uint32(param.(float64))), nil
		case reflect.Uint64:
			return reflect.ValueOf(uint64(param.(float64))), nil
		}
	}

	if paramValue.Type().ConvertibleTo(targetType) {
		return paramValue.Convert(targetType), nil
	}

	return reflect.Value{}, fmt.Errorf("cannot convert %T to %s", param, targetType)
}

// processResults unwraps a method's return values into (result, error).
func processResults(results []reflect.Value) (interface{}, error) {
	switch len(results) {
	case 0:
		return nil, nil
	case 1:
		if results[0].Type().Implements(reflect.TypeOf((*error)(nil)).Elem()) {
			if !results[0].IsNil() {
				return nil, results[0].Interface().(error)
			}
			return nil, nil
		}
		return results[0].Interface(), nil
	case 2:
		var err error
		if !results[1].IsNil() {
			err = results[1].Interface().(error)
		}
		if err != nil {
			return nil, err
		}
		return results[0].Interface(), nil
	default:
		var result []interface{}
		for i := 0; i < len(results)-1; i++ {
			result = append(result, results[i].Interface())
		}
		last := results[len(results)-1]
		if last.Type().Implements(reflect.TypeOf((*error)(nil)).Elem()) && !last.IsNil() {
			return nil, last.Interface().(error)
		}
		return result, nil
	}
}
