package flows

import "context"

type AccessoryTipsOutput struct {
	AccessoryTips string `json:"accessoryTips"`
}

type FashionFactOutput struct {
	Fact string `json:"fact"`
}

func (p *Pipeline) AccessoryTips(ctx context.Context, req AccessoryTipsRequest) (*AccessoryTipsOutput, error) {
	var out AccessoryTipsOutput
	if err := p.textStep(ctx, FlowAccessory, PromptAccessory, req, accessoryTipsSchema, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *Pipeline) FashionFact(ctx context.Context, req FashionFactRequest) (*FashionFactOutput, error) {
	var out FashionFactOutput
	if err := p.textStep(ctx, FlowFact, PromptFact, req, factSchema, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
