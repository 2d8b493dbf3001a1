package xons

// Factory 按属性创建各类 ONS 客户端。返回的客户端已构造但未启动。
type Factory interface {
	CreateProducer(props Properties) (Producer, error)
	CreateConsumer(props Properties) (Consumer, error)
	CreateBatchConsumer(props Properties) (BatchConsumer, error)
	CreateOrderProducer(props Properties) (OrderProducer, error)
	CreateOrderedConsumer(props Properties) (OrderConsumer, error)

	// CreateTransactionProducer checker 为 nil 时回查一律返回 UnknowState。
	CreateTransactionProducer(props Properties, checker TransactionCheckListener) (TransactionProducer, error)

	CreatePullConsumer(props Properties) (PullConsumer, error)
}

type factory struct {
	opts *options
}

// NewFactory 创建基于 rocketmq-client-go 的 Factory。
func NewFactory(opts ...Option) Factory {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return &factory{opts: o}
}

func (f *factory) CreateProducer(props Properties) (Producer, error) {
	cfg, err := buildClientConfig("createProducer", props.Normalize(), roleProducer, f.opts)
	if err != nil {
		return nil, err
	}
	return newProducer("producer", cfg, f.opts)
}

func (f *factory) CreateOrderProducer(props Properties) (OrderProducer, error) {
	cfg, err := buildClientConfig("createOrderProducer", props.Normalize(), roleOrderProducer, f.opts)
	if err != nil {
		return nil, err
	}
	p, err := newProducer("order_producer", cfg, f.opts)
	if err != nil {
		return nil, err
	}
	return &orderProducer{p: p}, nil
}

func (f *factory) CreateTransactionProducer(props Properties, checker TransactionCheckListener) (TransactionProducer, error) {
	cfg, err := buildClientConfig("createTransactionProducer", props.Normalize(), roleProducer, f.opts)
	if err != nil {
		return nil, err
	}
	return newTransactionProducer(cfg, checker, f.opts)
}

func (f *factory) CreateConsumer(props Properties) (Consumer, error) {
	c, err := f.push("createConsumer", "consumer", props, roleConsumer)
	if err != nil {
		return nil, err
	}
	return &messageConsumer{pushConsumer: c}, nil
}

func (f *factory) CreateBatchConsumer(props Properties) (BatchConsumer, error) {
	c, err := f.push("createBatchConsumer", "batch_consumer", props, roleBatchConsumer)
	if err != nil {
		return nil, err
	}
	return &batchConsumer{pushConsumer: c}, nil
}

func (f *factory) CreateOrderedConsumer(props Properties) (OrderConsumer, error) {
	c, err := f.push("createOrderedConsumer", "order_consumer", props, roleOrderConsumer)
	if err != nil {
		return nil, err
	}
	return &orderConsumer{pushConsumer: c}, nil
}

func (f *factory) CreatePullConsumer(props Properties) (PullConsumer, error) {
	props = props.Normalize()
	cfg, err := buildClientConfig("createPullConsumer", props, rolePullConsumer, f.opts)
	if err != nil {
		return nil, err
	}
	timeout, err := props.Millis(KeyPollTimeoutMillis, DefaultPollTimeout)
	if err != nil {
		return nil, configError("createPullConsumer", err)
	}
	return newPullConsumer(cfg, timeout, f.opts)
}

func (f *factory) push(op, name string, props Properties, r role) (*pushConsumer, error) {
	cfg, err := buildClientConfig(op, props.Normalize(), r, f.opts)
	if err != nil {
		return nil, err
	}
	return newPushConsumer(name, cfg, f.opts)
}
