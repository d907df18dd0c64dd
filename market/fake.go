package market

import "context"

type FakeBackend struct {
	BaseInfo Info
	Infos    map[string]Info
	Errs     map[string]error

	Calls []string
}

func (f *FakeBackend) Info(_ context.Context, symbol string) (Info, error) {
	f.Calls = append(f.Calls, symbol)
	if err, ok := f.Errs[symbol]; ok {
		return nil, err
	}

	info := Info{}
	for k, v := range f.BaseInfo {
		info[k] = v
	}
	for k, v := range f.Infos[symbol] {
		info[k] = v
	}
	return info, nil
}
