package api

// DeviceTexture is a texture living on the presentation device.
type DeviceTexture interface {
	Release()
}

// TextureFactory is implemented by video plugins able to upload textures.
type TextureFactory interface {
	CreateTexture(name string, width, height int, pixels []byte) (DeviceTexture, error)
}

// ShaderStage names a pipeline stage.
type ShaderStage string

const (
	ShaderStageVertex   ShaderStage = "vertex"
	ShaderStageGeometry ShaderStage = "geometry"
	ShaderStageFragment ShaderStage = "fragment"
	ShaderStageCompute  ShaderStage = "compute"
)

type DeviceShader interface {
	Release()
}

// ShaderCompiler is implemented by video plugins able to build shader programs.
type ShaderCompiler interface {
	CompileShader(name string, sources map[ShaderStage][]byte) (DeviceShader, error)
}
